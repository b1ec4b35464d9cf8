package commands

import (
	"context"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"

	"github.com/junsooki/cliprec/internal/encoder"
	"github.com/junsooki/cliprec/internal/input"
	"github.com/junsooki/cliprec/internal/mirror"
	"github.com/junsooki/cliprec/internal/peer"
	"github.com/junsooki/cliprec/internal/signaling"
)

// mirrorHost answers viewer offers and feeds the window to the connected
// viewer. A new offer replaces the previous viewer.
type mirrorHost struct {
	ctx       context.Context
	sig       *signaling.Client
	publisher *mirror.Publisher
	remote    input.Injector

	mu   sync.Mutex
	peer *peer.Publisher
}

func startMirror(ctx context.Context, remote input.Injector) (*mirrorHost, error) {
	m := &mirrorHost{
		ctx: ctx,
		publisher: mirror.NewPublisher(ctx, mirror.PublisherOptions{
			FPS:     cfg.Mirror.FPS,
			Encoder: encoder.NewJPEGEncoder(cfg.Mirror.Quality),
		}),
		remote: remote,
	}
	m.sig = signaling.NewClient(cfg.Mirror.SignalingURL, cfg.Mirror.ID, signaling.RolePublisher, signaling.Handler{
		OnRegistered: func() {
			logger.Infof(ctx, "mirror registered; viewers connect with id %s", cfg.Mirror.ID)
		},
		OnOffer:        m.handleOffer,
		OnICECandidate: m.handleCandidate,
		OnError: func(msg string) {
			logger.Errorf(ctx, "signaling error: %s", msg)
		},
	})
	if err := m.sig.Connect(ctx); err != nil {
		m.publisher.Close()
		return nil, err
	}
	return m, nil
}

func (m *mirrorHost) handleOffer(from string, payload []byte) {
	logger.Infof(m.ctx, "viewer %s connecting", from)
	p, err := peer.NewPublisher(m.ctx, m.sig)
	if err != nil {
		logger.Errorf(m.ctx, "create publisher peer: %v", err)
		return
	}
	p.Transport().OnControl(mirror.ControlHandler(m.ctx, m.remote))

	m.mu.Lock()
	old := m.peer
	m.peer = p
	m.mu.Unlock()
	if old != nil {
		old.Close()
	}
	m.publisher.SetSender(p.Transport())

	if err := p.HandleOffer(from, payload); err != nil {
		logger.Errorf(m.ctx, "handle offer from %s: %v", from, err)
	}
}

func (m *mirrorHost) handleCandidate(from string, payload []byte) {
	m.mu.Lock()
	p := m.peer
	m.mu.Unlock()
	if p == nil || p.Viewer() != from {
		return
	}
	if err := p.HandleICECandidate(payload); err != nil {
		logger.Warnf(m.ctx, "ICE candidate from %s: %v", from, err)
	}
}

func (m *mirrorHost) Close() {
	m.sig.Close()
	m.publisher.SetSender(nil)
	m.mu.Lock()
	if m.peer != nil {
		m.peer.Close()
	}
	m.mu.Unlock()
	m.publisher.Close()
}
