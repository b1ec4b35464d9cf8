package peer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"
)

type sent struct {
	kind    string
	target  string
	payload []byte
}

type fakeSignaler struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeSignaler) record(kind, target string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{kind, target, payload})
	return nil
}

func (f *fakeSignaler) SendOffer(target string, payload []byte) error {
	return f.record("offer", target, payload)
}

func (f *fakeSignaler) SendAnswer(target string, payload []byte) error {
	return f.record("answer", target, payload)
}

func (f *fakeSignaler) SendICECandidate(target string, payload []byte) error {
	return f.record("candidate", target, payload)
}

func (f *fakeSignaler) first(kind string) (sent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sent {
		if s.kind == kind {
			return s, true
		}
	}
	return sent{}, false
}

func TestOfferAnswer(t *testing.T) {
	ctx := context.Background()

	viewerSig := &fakeSignaler{}
	v, err := NewViewer(ctx, viewerSig, "pub")
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.Connect())
	offer, ok := viewerSig.first("offer")
	require.True(t, ok)
	require.Equal(t, "pub", offer.target)

	var desc webrtc.SessionDescription
	require.NoError(t, json.Unmarshal(offer.payload, &desc))
	require.Equal(t, webrtc.SDPTypeOffer, desc.Type)
	require.Contains(t, desc.SDP, "m=application")

	pubSig := &fakeSignaler{}
	p, err := NewPublisher(ctx, pubSig)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.HandleOffer("viewer-1", offer.payload))
	require.Equal(t, "viewer-1", p.Viewer())

	answer, ok := pubSig.first("answer")
	require.True(t, ok)
	require.Equal(t, "viewer-1", answer.target)
	require.NoError(t, v.HandleAnswer(answer.payload))
}

func TestHandleBadPayloads(t *testing.T) {
	p, err := NewPublisher(context.Background(), &fakeSignaler{})
	require.NoError(t, err)
	defer p.Close()

	require.Error(t, p.HandleOffer("x", []byte("not json")))
	require.Error(t, p.HandleICECandidate([]byte("not json")))
}
