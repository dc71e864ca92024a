package services

import (
	"context"
	"testing"
	"time"
)

func TestPacerSpacesCalls(t *testing.T) {
	pacer := NewPacer(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := pacer.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	// First call is immediate, the next two each wait the interval.
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("calls not paced: elapsed %v", elapsed)
	}
}

func TestPacerZeroIntervalDoesNotBlock(t *testing.T) {
	pacer := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := pacer.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("unpaced waits took too long: %v", elapsed)
	}
}

func TestPacerHonorsContextCancellation(t *testing.T) {
	pacer := NewPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	// Consume the initial token so the next wait blocks.
	if err := pacer.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := pacer.Wait(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}
