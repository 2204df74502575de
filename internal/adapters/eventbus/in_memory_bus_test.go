package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"ArthaOnboard/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() ports.EventBus {
	logger := zerolog.Nop()
	return NewInMemoryEventBus(&logger)
}

func TestEventBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := newTestBus()

	var mu sync.Mutex
	var received []ports.Event
	var wg sync.WaitGroup
	wg.Add(2)

	handler := func(ctx context.Context, event ports.Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		wg.Done()
		return nil
	}

	bus.Subscribe(ports.TopicDocumentFlagged, handler)
	bus.Subscribe(ports.TopicDocumentFlagged, handler)

	payload := ports.DocumentFlaggedEvent{DocumentType: "PAN Card", Verdict: "SUSPICIOUS"}
	require.NoError(t, bus.Publish(context.Background(), ports.TopicDocumentFlagged, payload))

	waitDone(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 2)
	for _, event := range received {
		assert.Equal(t, ports.TopicDocumentFlagged, event.Topic)
		assert.Equal(t, payload, event.Data)
	}
}

func TestEventBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := newTestBus()

	err := bus.Publish(context.Background(), "onboarding:unused:topic", "ignored")
	assert.NoError(t, err)
}

func TestEventBus_TopicsAreIsolated(t *testing.T) {
	bus := newTestBus()

	var wg sync.WaitGroup
	wg.Add(1)
	var calls int
	var mu sync.Mutex

	bus.Subscribe("topic-a", func(ctx context.Context, event ports.Event) error {
		mu.Lock()
		calls++
		mu.Unlock()
		wg.Done()
		return nil
	})
	bus.Subscribe("topic-b", func(ctx context.Context, event ports.Event) error {
		t.Error("handler for topic-b should not fire")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "topic-a", nil))
	waitDone(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func waitDone(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handlers")
	}
}
