package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalBus_FanOutPerSession(t *testing.T) {
	bus := NewLocalBus()
	a, unsubA := bus.Subscribe("s1")
	b, unsubB := bus.Subscribe("s1")
	other, unsubOther := bus.Subscribe("s2")
	defer unsubA()
	defer unsubB()
	defer unsubOther()

	assert.NoError(t, bus.Publish(context.Background(), "s1"))

	expectSignal(t, a)
	expectSignal(t, b)
	assert.Len(t, other, 0)
}

func TestLocalBus_CoalescesUndrainedSignals(t *testing.T) {
	bus := NewLocalBus()
	ch, unsubscribe := bus.Subscribe("s1")
	defer unsubscribe()

	bus.Notify("s1")
	bus.Notify("s1")
	bus.Notify("s1")

	assert.Len(t, ch, 1)
}

func TestLocalBus_Unsubscribe(t *testing.T) {
	bus := NewLocalBus()
	ch, unsubscribe := bus.Subscribe("s1")
	assert.Equal(t, 1, bus.Subscribers("s1"))

	unsubscribe()
	unsubscribe()

	assert.Equal(t, 0, bus.Subscribers("s1"))
	_, open := <-ch
	assert.False(t, open)

	bus.Notify("s1")
}
