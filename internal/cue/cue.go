// Package cue plays short audio cues for task list events.
//
// Playback is fire-and-forget: Dispatcher.Notify returns immediately and the
// player runs on its own goroutine. Failures are logged and never reach the
// caller.
package cue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Kind identifies a cue.
type Kind string

const (
	// Add is played after a task is appended.
	Add Kind = "add"
	// Complete is played on every completion toggle.
	Complete Kind = "complete"
)

// DefaultAsset is the asset both cues resolve to unless configured.
const DefaultAsset = "complete.mp3"

// Player plays one asset.
type Player interface {
	Play(ctx context.Context, asset string) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, asset string) error

// Play calls f.
func (f PlayerFunc) Play(ctx context.Context, asset string) error {
	return f(ctx, asset)
}

// Player names understood by NewPlayer besides external commands.
const (
	PlayerBell = "bell"
	PlayerNone = "none"
)

// NewPlayer builds a player from its configured name. "bell" writes the
// terminal bell to w, "none" (or "") plays nothing, and anything else is
// split on whitespace and run as an external command with the asset path
// appended.
func NewPlayer(name string, w io.Writer) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PlayerNone, "off":
		return NopPlayer{}, nil
	case PlayerBell:
		return &BellPlayer{W: w}, nil
	}
	fields := strings.Fields(name)
	if _, err := exec.LookPath(fields[0]); err != nil {
		return nil, fmt.Errorf("sound player %q: %w", fields[0], err)
	}
	return &CommandPlayer{Command: fields[0], Args: fields[1:]}, nil
}

// NopPlayer plays nothing.
type NopPlayer struct{}

// Play does nothing.
func (NopPlayer) Play(context.Context, string) error { return nil }

// BellPlayer rings the terminal bell.
type BellPlayer struct {
	W  io.Writer
	mu sync.Mutex
}

// Play writes BEL to the configured writer (stdout when nil).
func (b *BellPlayer) Play(ctx context.Context, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	w := b.W
	if w == nil {
		w = os.Stdout
	}
	_, err := w.Write([]byte{'\a'})
	return err
}

// CommandPlayer runs an external audio player such as paplay, afplay or
// mpg123. The asset path is passed as the last argument.
type CommandPlayer struct {
	Command string
	Args    []string
}

// Play runs the player and waits for it to exit or for ctx to expire.
func (c *CommandPlayer) Play(ctx context.Context, asset string) error {
	if c.Command == "" {
		return errors.New("player command is empty")
	}
	if asset == "" {
		return errors.New("no asset for cue")
	}
	if _, err := os.Stat(asset); err != nil {
		return fmt.Errorf("asset %s: %w", asset, err)
	}

	args := append(append([]string{}, c.Args...), asset)
	cmd := exec.CommandContext(ctx, c.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s exited with code %d: %s", c.Command, exitCodeFromError(err), msg)
		}
		return fmt.Errorf("%s exited with code %d: %w", c.Command, exitCodeFromError(err), err)
	}
	return nil
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
