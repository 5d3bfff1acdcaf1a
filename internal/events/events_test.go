package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishToSubscribers(t *testing.T) {
	bus := NewBus()

	var opened []int64
	bus.Subscribe(TopicMeetingOpened, func(e Event) {
		opened = append(opened, e.AppointmentID)
	})
	bus.Subscribe(TopicMeetingClosed, func(e Event) {
		t.Errorf("closed handler should not fire, got %+v", e)
	})

	bus.Publish(Event{Type: TopicMeetingOpened, AppointmentID: 7})
	bus.Publish(Event{Type: TopicMeetingOpened, AppointmentID: 9})

	assert.Equal(t, []int64{7, 9}, opened)
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewBus()
	// Publishing with no subscribers is a no-op.
	bus.Publish(Event{Type: TopicMeetingClosed, AppointmentID: 1})
}

func TestBus_StampsTime(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.Subscribe(TopicMeetingOpened, func(e Event) { got = e })
	bus.Publish(Event{Type: TopicMeetingOpened, AppointmentID: 3})

	assert.False(t, got.At.IsZero())
}
