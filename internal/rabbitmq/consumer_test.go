package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConsumerMessage_HandleMessages(t *testing.T) {
	ch := openChannel(t, setupBroker(t))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	queueName := "consumer-test"
	_, err := ch.QueueDeclare(queueName, false, false, false, false, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	var mu sync.Mutex
	received := make([]string, 0)

	err = ConsumerMessage(ctx, ch, queueName, newNoopLogger(), func(body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(body))
		wg.Done()
		return nil
	})
	require.NoError(t, err)

	for _, msg := range []string{"hello", "world"} {
		err := ch.Publish("", queueName, false, false, amqp.Publishing{ContentType: "text/plain", Body: []byte(msg)})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for messages to be processed")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"hello", "world"}, received)
}

func TestConsumerMessage_FailedMessageRetriedOnce(t *testing.T) {
	ch := openChannel(t, setupBroker(t))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	queueName := "nack-test"
	_, err := ch.QueueDeclare(queueName, false, false, false, false, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	err = ConsumerMessage(ctx, ch, queueName, newNoopLogger(), func(_ []byte) error {
		calls.Add(1)
		return errors.New("fail")
	})
	require.NoError(t, err)

	err = ch.Publish("", queueName, false, false, amqp.Publishing{ContentType: "text/plain", Body: []byte("bad")})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return calls.Load() == 2 }, 10*time.Second, 50*time.Millisecond)
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}
