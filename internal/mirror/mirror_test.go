package mirror_test

import (
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs-rover/joyserial/command"
	"github.com/acs-rover/joyserial/internal/mirror"
)

type published struct {
	topic   string
	qos     byte
	payload any
}

type fakePublisher struct {
	mu      sync.Mutex
	msgs    []published
	entered chan struct{}
	release chan struct{}
}

func (f *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{topic: topic, qos: qos, payload: payload})
	return nil
}

func (f *fakePublisher) messages() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msgs
}

func TestObservePublishesEachCommand(t *testing.T) {
	pub := &fakePublisher{}
	m := mirror.New(pub, "rover/cmd", 8)

	m.Observe(nil, []command.Command{{110, 50}, {'S'}})
	m.Observe(nil, nil)
	m.Close()

	assert.Equal(t, []published{
		{topic: "rover/cmd", qos: 0, payload: "6e32"},
		{topic: "rover/cmd", qos: 0, payload: "53"},
	}, pub.messages())
	assert.Zero(t, m.Dropped())
}

func TestObserveDoesNotWaitForStalledPublisher(t *testing.T) {
	pub := &fakePublisher{
		entered: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	m := mirror.New(pub, "rover/cmd", 1)

	m.Observe(nil, []command.Command{{'5'}})
	select {
	case <-pub.entered:
	case <-time.After(time.Second):
		require.FailNow(t, "publisher never called")
	}

	// publisher is stuck on '5': one command fits the queue, the rest drop
	done := make(chan struct{})
	go func() {
		m.Observe(nil, []command.Command{{'F'}, {'B'}, {'S'}})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "Observe blocked on a stalled publisher")
	}
	assert.Equal(t, int64(2), m.Dropped())

	close(pub.release)
	m.Close()
	assert.Equal(t, []published{
		{topic: "rover/cmd", qos: 0, payload: "35"},
		{topic: "rover/cmd", qos: 0, payload: "46"},
	}, pub.messages())
}
