package commands

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"

	"github.com/junsooki/cliprec/internal/capture"
	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/output"
	"github.com/junsooki/cliprec/internal/permissions"
)

func runShot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := permissions.EnsureScreenRecording(); err != nil {
		return err
	}

	spec, _ := cmd.Flags().GetString("region")
	region, err := shotRegion(spec)
	if err != nil {
		return err
	}

	path, err := shoot(ctx, capture.DesktopSource{}, region, output.NewDir(cfg.OutputDir), cfg.StillFormat())
	if err != nil {
		return err
	}
	logger.Infof(ctx, "screenshot %v written to %s", region, path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func shotRegion(spec string) (image.Rectangle, error) {
	if spec == "" {
		return capture.DesktopBounds()
	}
	var x, y, w, h int
	if _, err := fmt.Sscanf(spec, "%d,%d,%d,%d", &x, &y, &w, &h); err != nil {
		return image.Rectangle{}, fmt.Errorf("region %q: want x,y,width,height: %w", spec, err)
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("region %q: empty size", spec)
	}
	return image.Rect(x, y, x+w, y+h), nil
}

func shoot(ctx context.Context, src capture.Source, region image.Rectangle, layout *output.Layout, format encoder.Format) (string, error) {
	enc, err := encoder.StillForFormat(format)
	if err != nil {
		return "", err
	}
	img, err := src.ReadRegion(ctx, region)
	if err != nil {
		return "", err
	}
	defer capture.RecycleFrame(img)
	return layout.Write(format.Ext(), func(w io.Writer) error {
		return enc.Encode(w, img)
	})
}
