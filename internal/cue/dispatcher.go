package cue

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Defaults for Options.
const (
	DefaultTimeout     = 3 * time.Second
	DefaultMaxInFlight = 4
)

// Options configures a Dispatcher.
type Options struct {
	Player Player
	// Assets maps each cue to a playable resource. Missing entries fall
	// back to DefaultAsset.
	Assets  map[Kind]string
	Timeout time.Duration
	// MaxInFlight bounds concurrent playbacks. Cues arriving while all
	// slots are busy are dropped.
	MaxInFlight int
	Logger      *log.Logger
}

// Dispatcher plays cues asynchronously with bounded concurrency.
type Dispatcher struct {
	player  Player
	assets  map[Kind]string
	timeout time.Duration
	logger  *log.Logger
	slots   chan struct{}
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewDispatcher creates a dispatcher. A nil player plays nothing.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Player == nil {
		opts.Player = NopPlayer{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	assets := make(map[Kind]string, len(opts.Assets))
	for k, v := range opts.Assets {
		assets[k] = v
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		player:  opts.Player,
		assets:  assets,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		slots:   make(chan struct{}, opts.MaxInFlight),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Asset returns the resource a cue resolves to.
func (d *Dispatcher) Asset(kind Kind) string {
	if a := d.assets[kind]; a != "" {
		return a
	}
	return DefaultAsset
}

// Notify starts playback of kind and returns without waiting for it.
func (d *Dispatcher) Notify(kind Kind) {
	if d == nil || d.ctx.Err() != nil {
		return
	}
	if _, ok := d.player.(NopPlayer); ok {
		return
	}

	select {
	case d.slots <- struct{}{}:
	default:
		d.logger.Debug("Dropping sound cue", "cue", kind)
		return
	}

	asset := d.Asset(kind)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.slots }()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Warn("Sound playback failed", "cue", kind, "asset", asset, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
		defer cancel()
		if err := d.player.Play(ctx, asset); err != nil {
			d.logger.Warn("Sound playback failed", "cue", kind, "asset", asset, "err", err)
			return
		}
		d.logger.Debug("Played sound cue", "cue", kind)
	}()
}

// Wait blocks until in-flight playbacks finish.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

// Close cancels in-flight playbacks, waits for them, and rejects new cues.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.cancel()
	d.wg.Wait()
}
