package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrNotFound, "fetch", "resolve channel", "channel missing", base)

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("cause lost: %v", err)
	}
	for _, fragment := range []string{"fetch", "resolve channel", "channel missing"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("missing %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "describe", "generate", "", errors.New("timeout"))
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker: %v", err)
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		err         error
		fatal       bool
		unavailable bool
	}{
		{Wrap(ErrNotFound, "fetch", "enumerate", "", nil), true, false},
		{Wrap(ErrConfiguration, "publish", "credentials", "", nil), true, false},
		{Wrap(ErrUnavailable, "fetch", "captions", "", nil), false, true},
		{Wrap(ErrTransient, "fetch", "request", "", nil), false, false},
		{errors.New("plain"), false, false},
	}
	for _, tc := range cases {
		if got := IsFatal(tc.err); got != tc.fatal {
			t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.fatal)
		}
		if got := IsUnavailable(tc.err); got != tc.unavailable {
			t.Fatalf("IsUnavailable(%v) = %v, want %v", tc.err, got, tc.unavailable)
		}
	}
}
