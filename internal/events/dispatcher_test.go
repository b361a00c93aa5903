package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatcherPublishSubscribe(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []Event
	dispatcher.Subscribe(EventIdentityRegistered, func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})

	event := Event{
		ID:         "event-1",
		Type:       EventIdentityRegistered,
		IdentityID: "identity-1",
		Timestamp:  time.Now(),
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))
	require.Len(t, seen, 1)
	require.Equal(t, "identity-1", seen[0].IdentityID)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered int
	dispatcher.Subscribe(EventIdentityReauthenticated, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventIdentityReauthenticated, func(context.Context, Event) error {
		delivered++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIdentityReauthenticated}))
	require.Equal(t, 1, delivered)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered int
	dispatcher.Subscribe(EventIdentityRegistered, func(context.Context, Event) error {
		delivered++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIdentityReauthenticated}))
	require.Zero(t, delivered)
}
