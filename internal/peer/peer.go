// Package peer sets up the WebRTC connections of the mirror. The viewer
// offers and creates both data channels; the publisher answers and adopts
// them.
package peer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/pion/webrtc/v4"
)

// ICEServers is the default ICE server configuration.
var ICEServers = []webrtc.ICEServer{
	{URLs: []string{"stun:stun.l.google.com:19302", "stun:stun1.l.google.com:19302"}},
}

// Signaler relays session descriptions and candidates to the other side.
type Signaler interface {
	SendOffer(target string, payload []byte) error
	SendAnswer(target string, payload []byte) error
	SendICECandidate(target string, payload []byte) error
}

// NewPeerConnection creates a configured PeerConnection that logs its state
// changes through the logger in ctx.
func NewPeerConnection(ctx context.Context) (*webrtc.PeerConnection, error) {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{ICEServers: ICEServers})
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		logger.Infof(ctx, "peer connection state: %s", state)
	})
	return pc, nil
}

// trickle forwards local ICE candidates to target. target is read on every
// candidate so the publisher can learn it late.
func trickle(ctx context.Context, pc *webrtc.PeerConnection, sig Signaler, target func() string) {
	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		to := target()
		if c == nil || to == "" {
			return
		}
		data, err := json.Marshal(c.ToJSON())
		if err != nil {
			logger.Errorf(ctx, "marshal ICE candidate: %v", err)
			return
		}
		if err := sig.SendICECandidate(to, data); err != nil {
			logger.Warnf(ctx, "send ICE candidate: %v", err)
		}
	})
}

func addCandidate(pc *webrtc.PeerConnection, payload []byte) error {
	var candidate webrtc.ICECandidateInit
	if err := json.Unmarshal(payload, &candidate); err != nil {
		return fmt.Errorf("decode ICE candidate: %w", err)
	}
	return pc.AddICECandidate(candidate)
}
