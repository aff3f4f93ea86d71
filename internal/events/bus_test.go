package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	inserted []Event
	err      error
}

func (m *memStore) InsertEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (Event, error) {
	if m.err != nil {
		return Event{}, m.err
	}
	ev := Event{
		ID:          uuid.New(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     json.RawMessage(payload),
		OccurredAt:  time.Now(),
	}
	m.inserted = append(m.inserted, ev)
	return ev, nil
}

type recordingNotifier struct {
	seen []Event
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) error {
	r.seen = append(r.seen, ev)
	return r.err
}

func TestEmitPersistsAndNotifies(t *testing.T) {
	store := &memStore{}
	notifier := &recordingNotifier{}
	bus := &Bus{Store: store, Notifiers: []Notifier{notifier}}

	id := uuid.New()
	ev, err := bus.Emit(context.Background(), TopicBookingCreated, id, map[string]any{"bookingNumber": "BK-1"})
	require.NoError(t, err)
	require.Equal(t, TopicBookingCreated, ev.Topic)
	require.Len(t, store.inserted, 1)
	require.Len(t, notifier.seen, 1)
	require.JSONEq(t, `{"bookingNumber":"BK-1"}`, string(notifier.seen[0].Payload))
}

func TestEmitNotifierFailureDoesNotUndoEvent(t *testing.T) {
	store := &memStore{}
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	bus := &Bus{Store: store, Notifiers: []Notifier{notifier}}

	_, err := bus.Emit(context.Background(), TopicBookingCreated, uuid.New(), nil)
	require.Error(t, err)
	require.Len(t, store.inserted, 1)
}

func TestEmitValidatesInput(t *testing.T) {
	bus := &Bus{Store: &memStore{}}
	_, err := bus.Emit(context.Background(), " ", uuid.New(), nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), TopicBookingCreated, uuid.Nil, nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), TopicBookingCreated, uuid.New(), []byte("not-json"))
	require.Error(t, err)
}

func TestEmitRejectsUnknownTopic(t *testing.T) {
	store := &memStore{}
	bus := &Bus{Store: store}

	_, err := bus.Emit(context.Background(), "booking.deleted", uuid.New(), nil)
	require.ErrorContains(t, err, "unknown topic")
	require.Empty(t, store.inserted)

	for _, topic := range DefaultTopics() {
		_, err := bus.Emit(context.Background(), topic, uuid.New(), nil)
		require.NoError(t, err)
	}
}
