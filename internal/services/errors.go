package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the three-way outcome taxonomy every stage shares.
//
// ErrUnavailable means the external system has no derivable content for this
// item right now (no captions, inaccessible resource). It is expected, never
// fatal, and never recorded in a ledger, so the item is retried on every
// future run.
//
// ErrNotFound and ErrConfiguration are fatal: they invalidate the whole run
// (catalog not resolvable, credentials missing) and must halt before item
// processing. Everything else is treated as a transient per-item failure.
var (
	ErrUnavailable   = errors.New("unavailable")
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err invalidates the whole stage run rather than a
// single item.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConfiguration)
}

// IsUnavailable reports whether err marks an expected per-item absence.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
