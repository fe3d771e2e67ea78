package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, _ interface{}) error {
	p.mu.Lock()
	p.topics = append(p.topics, topic)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.topics)
}

func TestCollector_AggregatesRepeatedWarnings(t *testing.T) {
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour})
	defer l.RemoveCollector()

	for i := 0; i < 3; i++ {
		l.Warn("fetch no data", String("key", "BTC-USD|1d|1m"))
	}
	l.Error("fetch pathway failed", Error(errors.New("timeout")))
	l.Info("not collected")

	snap := l.Collector().Snapshot()
	require.Len(t, snap, 2)

	byMsg := map[string]AggregatedLogEntry{}
	for _, e := range snap {
		byMsg[e.Message] = e
	}
	assert.Equal(t, 3, byMsg["fetch no data"].Count)
	assert.Equal(t, "warn", byMsg["fetch no data"].Level)
	assert.Equal(t, "timeout", byMsg["fetch pathway failed"].Fields["error"])
}

func TestCollector_ThresholdFlushKeepsPreviousWindow(t *testing.T) {
	pub := &recordingPublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, CountThreshold: 2, Topic: "diagnostics", Publisher: pub})
	defer l.RemoveCollector()

	l.Warn("a")
	l.Warn("b")

	assert.Len(t, l.Collector().Snapshot(), 2)
	assert.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRemoveCollector(t *testing.T) {
	l := Nop()
	l.AddCollector(&CollectionConfig{})
	l.RemoveCollector()
	assert.Nil(t, l.Collector())
	assert.NotPanics(t, func() { l.Warn("after removal") })
}

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestErrorFieldNil(t *testing.T) {
	k, v := Error(nil).GetKeyValue()
	assert.Equal(t, "error", k)
	assert.Nil(t, v)
}
