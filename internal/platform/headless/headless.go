// Package headless runs a stage without a terminal: frames are drawn into an
// off-screen software framebuffer on a fixed schedule, and input comes only
// from an optional script.
package headless

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/gfx"
	"github.com/vovakirdan/tui-stage/internal/gfx/soft"
	"github.com/vovakirdan/tui-stage/internal/stage"
)

// End reasons reported in Result.
const (
	ReasonFrames  = "frames"
	ReasonContext = "context"
)

// Result describes a finished run.
type Result struct {
	Frames uint64
	Reason string
	Stats  soft.Stats // of the last frame
}

// Script is called before every frame with the number of frames run so
// far. It may call any capture method of h.
type Script func(frame uint64, h stage.EventHandler)

type options struct {
	logger   *log.Logger
	tickRate int
	frames   uint64
	script   Script
}

// Option configures the headless backend.
type Option func(*options)

// WithLogger sets the backend logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTickRate paces frames at fps. Zero runs them back to back.
func WithTickRate(fps int) Option {
	return func(o *options) { o.tickRate = fps }
}

// WithFrames stops after n frames. Zero runs until the context is done.
func WithFrames(n uint64) Option {
	return func(o *options) { o.frames = n }
}

// WithScript feeds input before every frame.
func WithScript(s Script) Option {
	return func(o *options) { o.script = s }
}

// Start runs frames until the frame limit is reached or ctx is done. A
// factory error is returned as is.
func Start(ctx context.Context, conf stage.Conf, factory func(gfx.Context) (*stage.Stage, error), opts ...Option) (Result, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	device := soft.New(conf.Width, conf.Height)
	st, err := factory(device)
	if err != nil {
		return Result{}, err
	}

	var tick <-chan time.Time
	if o.tickRate > 0 {
		t := time.NewTicker(time.Second / time.Duration(o.tickRate))
		defer t.Stop()
		tick = t.C
	}

	o.logger.Info("headless backend started", "width", conf.Width, "height", conf.Height, "frames", o.frames)

	var res Result
	for {
		if o.frames > 0 && res.Frames >= o.frames {
			res.Reason = ReasonFrames
			break
		}
		if ctx.Err() != nil {
			res.Reason = ReasonContext
			break
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				res.Reason = ReasonContext
			case <-tick:
			}
			if res.Reason != "" {
				break
			}
		}

		if o.script != nil {
			o.script(res.Frames, st)
		}
		st.Frame()
		res.Frames++
	}

	res.Stats = device.Stats()
	o.logger.Info("headless backend stopped",
		"frames", res.Frames,
		"reason", res.Reason,
		"draws", res.Stats.Draws,
		"triangles", res.Stats.Triangles,
	)
	return res, nil
}
