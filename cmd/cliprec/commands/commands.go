// Package commands is the cobra command tree of cliprec.
package commands

import (
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/junsooki/cliprec/internal/config"
	"github.com/junsooki/cliprec/internal/logging"
)

var (
	// Access these variables only from a main package:

	Root = &cobra.Command{
		Use:               "cliprec",
		Short:             "Record a region of the window as GIF/APNG",
		Args:              cobra.NoArgs,
		PersistentPreRunE: setup,
		RunE:              runWindow,
		SilenceUsage:      true,
	}

	Shot = &cobra.Command{
		Use:   "shot",
		Short: "Take a screenshot of a desktop region",
		Args:  cobra.NoArgs,
		RunE:  runShot,
	}

	Config = &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	ConfigInit = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigInit,
	}

	// cfg is loaded by setup before any command runs.
	cfg *config.Config
)

func init() {
	Root.AddCommand(Shot)
	Root.AddCommand(Config)
	Config.AddCommand(ConfigInit)

	pf := Root.PersistentFlags()
	pf.String("config", "", "path to a YAML configuration file")
	pf.String("env-file", ".env", "path to a .env file with CLIPREC_* overrides")
	pf.String("log-level", "", "log level (trace, debug, info, warning, error)")
	pf.StringP("output", "o", "", "directory recordings and screenshots are written to")
	pf.Bool("png8", true, "write screenshots as 8-bit paletted PNG")

	f := Root.Flags()
	f.Int("fps", 0, "recording frame rate")
	f.Int("frame-limit", 0, "stop automatically after this many frames (0 = no limit)")
	f.StringSlice("formats", nil, "recording formats (gif, apng)")
	f.Bool("async", true, "encode recordings in the background")
	f.Bool("mirror", false, "publish the window to a remote viewer")
	f.String("signaling", "", "signaling server URL for the mirror")
	f.String("mirror-id", "", "id viewers connect to")

	Shot.Flags().String("region", "", "region as x,y,width,height in desktop pixels (default: all displays)")
}

// setup loads the configuration in order: file, .env and environment,
// then flags. It also installs the logger at the configured level.
func setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	envFile, _ := flags.GetString("env-file")
	lookup, err := config.EnvLookup(envFile)
	if err != nil {
		return err
	}
	if err := c.ApplyEnv(lookup); err != nil {
		return err
	}
	applyFlags(flags, c)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	ctx = logging.CtxWithLevel(ctx, level)
	cmd.SetContext(ctx)
	logger.Debugf(ctx, "configuration: %+v", *c)
	cfg = c
	return nil
}

func applyFlags(flags *pflag.FlagSet, c *config.Config) {
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if changed("output") {
		c.OutputDir, _ = flags.GetString("output")
	}
	if changed("png8") {
		c.PNG8, _ = flags.GetBool("png8")
	}
	if changed("fps") {
		c.FPS, _ = flags.GetInt("fps")
	}
	if changed("frame-limit") {
		c.FrameLimit, _ = flags.GetInt("frame-limit")
	}
	if changed("formats") {
		c.Formats, _ = flags.GetStringSlice("formats")
	}
	if changed("async") {
		c.AsyncEncode, _ = flags.GetBool("async")
	}
	if changed("mirror") {
		c.Mirror.Enabled, _ = flags.GetBool("mirror")
	}
	if changed("signaling") {
		c.Mirror.SignalingURL, _ = flags.GetString("signaling")
	}
	if changed("mirror-id") {
		c.Mirror.ID, _ = flags.GetString("mirror-id")
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "cliprec.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	logger.Infof(cmd.Context(), "wrote %s", path)
	return nil
}
