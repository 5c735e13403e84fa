package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewBus()

	ch1, cancel1 := bus.Subscribe()
	ch2, cancel2 := bus.Subscribe()
	defer cancel1()
	defer cancel2()

	event := Event{Table: "products", Action: "update", ID: 7}
	bus.Publish(event)

	assert.Equal(t, event, <-ch1)
	assert.Equal(t, event, <-ch2)
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()

	ch, cancel := bus.Subscribe()
	cancel()

	// Publishing after cancel must not panic on the closed channel
	bus.Publish(Event{Table: "products", Action: "delete", ID: 1})

	_, open := <-ch
	assert.False(t, open)

	// Double cancel is safe
	cancel()
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()

	_, cancel := bus.Subscribe()
	defer cancel()

	// Nobody is reading; fill well past the buffer. Publish must return.
	for i := 0; i < 100; i++ {
		bus.Publish(Event{Table: "products", Action: "update", ID: uint(i)})
	}
}
