package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrCorruptPersistedState marks a stored blob that could not be decoded
	// into a task list.
	ErrCorruptPersistedState = errors.New("corrupt persisted state")

	// ErrPersist marks a failed write of the task list.
	ErrPersist = errors.New("persist task list")
)

// Task is a single to-do item.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Created returns the creation time.
func (t Task) Created() time.Time {
	return time.UnixMilli(t.Timestamp)
}

// Variant selects how a row shows per-task status.
type Variant string

const (
	// VariantTimer shows the time elapsed since creation.
	VariantTimer Variant = "timer"
	// VariantBadge shows an appreciation badge on completed tasks.
	VariantBadge Variant = "badge"
)

// ParseVariant parses a variant name. Empty selects VariantTimer.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantTimer:
		return VariantTimer, nil
	case VariantBadge:
		return VariantBadge, nil
	default:
		return "", fmt.Errorf("invalid variant %q, must be one of: timer, badge", s)
	}
}

// ValidationError points at the part of a persisted blob that failed
// validation.
type ValidationError struct {
	Path string // dotted path to the offending value
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
