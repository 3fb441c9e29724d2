//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hostel-service/internal/crud"
	"hostel-service/internal/logger"
	"hostel-service/testing/testnats"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSPublisher_Publish(t *testing.T) {
	server := testnats.Start(t)
	sub := server.Connect(t)

	msgs := make(chan *nats.Msg, 1)
	_, err := sub.ChanSubscribe("hostel.room.>", msgs)
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	rec := &fakeRecorder{}
	pub, err := NewNATSPublisher(server.URL, "hostel", logger.Discard(), rec)
	require.NoError(t, err)

	change := sampleChange()
	require.NoError(t, pub.Publish(context.Background(), change))
	require.NoError(t, pub.Close())

	select {
	case msg := <-msgs:
		assert.Equal(t, "hostel.room.update", msg.Subject)
		var got crud.Change
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, change, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "hostel.room.update", rec.calls[0].destination)
}

func TestNATSSubscriber_ReceivesPublishedChanges(t *testing.T) {
	server := testnats.Start(t)

	sub, err := NewNATSSubscriber(server.URL, "hostel", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sub.Close() })

	received := make(chan crud.Change, 16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() {
		_ = sub.Start(ctx, func(_ context.Context, c crud.Change) error {
			received <- c
			return nil
		})
	}()

	pub, err := NewNATSPublisher(server.URL, "hostel", logger.Discard(), &fakeRecorder{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	change := sampleChange()
	assert.Eventually(t, func() bool {
		_ = pub.Publish(context.Background(), change)
		select {
		case got := <-received:
			return got.ID == change.ID && got.Op == change.Op
		default:
			return false
		}
	}, 10*time.Second, 200*time.Millisecond)
}
