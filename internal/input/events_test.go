package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventWireFormat(t *testing.T) {
	data, err := Event{Type: EventKeyDown, Key: KeyS, Modifiers: ModCtrl}.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"key_down","key":"s","modifiers":2}`, string(data))

	e, err := Unmarshal([]byte(`{"type":"mouse_down","x":12.5,"y":40}`))
	require.NoError(t, err)
	assert.Equal(t, Event{Type: EventMouseDown, X: 12.5, Y: 40}, e)
}

func TestUnmarshalRejects(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"type":"mouse_scroll"}`,
		`{"type":"key_up"}`,
	} {
		_, err := Unmarshal([]byte(raw))
		assert.Error(t, err, raw)
	}
}

func TestCtrl(t *testing.T) {
	assert.True(t, Event{Modifiers: ModCtrl}.Ctrl())
	assert.True(t, Event{Modifiers: ModMeta | ModShift}.Ctrl())
	assert.False(t, Event{Modifiers: ModShift}.Ctrl())
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue(0)
	assert.Nil(t, q.Drain())

	require.NoError(t, q.Inject(Event{Type: EventKeyDown, Key: KeyF}))
	require.NoError(t, q.Inject(Event{Type: EventKeyUp, Key: KeyF}))
	assert.Equal(t, []Event{
		{Type: EventKeyDown, Key: KeyF},
		{Type: EventKeyUp, Key: KeyF},
	}, q.Drain())
	assert.Nil(t, q.Drain())
}

func TestQueueDropsOldest(t *testing.T) {
	q := NewQueue(2)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Inject(Event{Type: EventMouseMove, X: float64(i)}))
	}
	events := q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, 1.0, events[0].X)
	assert.Equal(t, 2.0, events[1].X)
}

func TestQueueConcurrentInject(t *testing.T) {
	q := NewQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = q.Inject(Event{Type: EventMouseMove})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 500)
}
