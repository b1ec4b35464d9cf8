package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"

	"github.com/junsooki/cliprec/internal/config"
	"github.com/junsooki/cliprec/internal/display"
	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/input"
	"github.com/junsooki/cliprec/internal/logging"
	"github.com/junsooki/cliprec/internal/mirror"
	"github.com/junsooki/cliprec/internal/peer"
	"github.com/junsooki/cliprec/internal/signaling"
)

var root = &cobra.Command{
	Use:          "cliprec-viewer <publisher-id>",
	Short:        "Watch and control a cliprec window remotely",
	Args:         cobra.ExactArgs(1),
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	f := root.Flags()
	f.String("signaling", config.DefaultConfig().Mirror.SignalingURL, "signaling server URL")
	f.String("id", "", "viewer id (default: random)")
	f.String("log-level", "info", "log level (trace, debug, info, warning, error)")
	f.Bool("view-only", false, "do not forward input to the publisher")
	f.Int("width", 960, "window width")
	f.Int("height", 600, "window height")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logging.CtxWithLevel(ctx, logger.LevelInfo)
	defer belt.Flush(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error(ctx, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	levelName, _ := flags.GetString("log-level")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	ctx := logging.CtxWithLevel(cmd.Context(), level)

	publisherID := args[0]
	url, _ := flags.GetString("signaling")
	id, _ := flags.GetString("id")
	if id == "" {
		id = fmt.Sprintf("viewer-%s", config.RandomID())
	}
	viewOnly, _ := flags.GetBool("view-only")
	width, _ := flags.GetInt("width")
	height, _ := flags.GetInt("height")

	var (
		mu sync.Mutex
		vp *peer.Viewer
	)
	current := func() *peer.Viewer {
		mu.Lock()
		defer mu.Unlock()
		return vp
	}

	var onInput display.InputCallback
	if !viewOnly {
		onInput = func(e input.Event) {
			p := current()
			if p == nil {
				return
			}
			if err := (mirror.Remote{Sender: p.Transport()}).Inject(e); err != nil {
				logger.Tracef(ctx, "control: %v", err)
			}
		}
	}
	win := display.NewViewer(onInput)
	showFrame := mirror.PreviewHandler(ctx, encoder.NewJPEGDecoder(), win.SetFrame)

	var sig *signaling.Client
	sig = signaling.NewClient(url, id, signaling.RoleViewer, signaling.Handler{
		OnRegistered: func() {
			logger.Infof(ctx, "registered as %s, connecting to %s", id, publisherID)
			p, err := peer.NewViewer(ctx, sig, publisherID)
			if err != nil {
				logger.Errorf(ctx, "create viewer peer: %v", err)
				win.SetStatus("connection failed")
				return
			}
			p.Transport().OnPreview(showFrame)
			mu.Lock()
			vp = p
			mu.Unlock()
			if err := p.Connect(); err != nil {
				logger.Errorf(ctx, "connect: %v", err)
				win.SetStatus("connection failed")
				return
			}
			win.SetStatus("connecting to " + publisherID)
		},
		OnAnswer: func(from string, payload []byte) {
			if p := current(); p != nil {
				if err := p.HandleAnswer(payload); err != nil {
					logger.Errorf(ctx, "handle answer: %v", err)
				}
			}
		},
		OnICECandidate: func(from string, payload []byte) {
			if p := current(); p != nil {
				if err := p.HandleICECandidate(payload); err != nil {
					logger.Warnf(ctx, "ICE candidate: %v", err)
				}
			}
		},
		OnPublisherDisconnected: func(id string) {
			if id == publisherID {
				win.SetStatus(publisherID + " disconnected")
			}
		},
		OnError: func(msg string) {
			logger.Errorf(ctx, "signaling error: %s", msg)
			win.SetStatus(msg)
		},
	})
	if err := sig.Connect(ctx); err != nil {
		return err
	}
	defer sig.Close()

	// RunGame must stay on the main goroutine.
	err = win.Run("cliprec viewer: "+publisherID, width, height)
	if p := current(); p != nil {
		p.Close()
	}
	return err
}
