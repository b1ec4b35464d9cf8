package commands

import (
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"

	"github.com/junsooki/cliprec/internal/capture"
	"github.com/junsooki/cliprec/internal/demo"
	"github.com/junsooki/cliprec/internal/display"
	"github.com/junsooki/cliprec/internal/editor"
	"github.com/junsooki/cliprec/internal/geometry"
	"github.com/junsooki/cliprec/internal/input"
	"github.com/junsooki/cliprec/internal/output"
	"github.com/junsooki/cliprec/internal/recorder"
)

func runWindow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	formats, err := cfg.AnimatedFormats()
	if err != nil {
		return err
	}
	layout := output.NewDir(cfg.OutputDir)
	viewport := geometry.Viewport{
		Width:  float64(cfg.Window.Width),
		Height: float64(cfg.Window.Height),
	}
	rec := recorder.New(ctx, viewport, recorder.Options{
		Editor: editor.Options{
			TouchSize:     cfg.Overlay.TouchSize,
			BoundarySize:  cfg.Overlay.BoundarySize,
			MinDistance:   cfg.Overlay.MinDistance,
			DefaultWidth:  cfg.Overlay.DefaultWidth,
			DefaultHeight: cfg.Overlay.DefaultHeight,
		},
		Session: capture.SessionOptions{
			Limit: cfg.FrameLimit,
			FPS:   cfg.FPS,
		},
		Formats:     formats,
		StillFormat: cfg.StillFormat(),
		Output:      layout,
		AsyncEncode: cfg.AsyncEncode,
	})
	defer func() {
		if err := rec.Close(ctx); err != nil {
			logger.Errorf(ctx, "close recorder: %v", err)
		}
	}()

	opts := display.HostOptions{}
	if cfg.Mirror.Enabled {
		remote := input.NewQueue(0)
		m, err := startMirror(ctx, remote)
		if err != nil {
			return err
		}
		defer m.Close()
		opts.Remote = remote
		opts.Mirror = m.publisher
	}

	logger.Infof(ctx, "writing to %s (%v, %d fps)", layout.Root(), formats, cfg.FPS)
	scene := demo.New(12, cfg.Window.Width, cfg.Window.Height)
	host := display.NewHost(ctx, scene, rec, opts)
	return host.Run(cfg.Window.Title)
}
