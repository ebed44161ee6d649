package remote

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabina/popupkit/internal/popup"
	"github.com/carabina/popupkit/internal/signal"
)

func TestBridge_DismissPositivePublishes(t *testing.T) {
	bus := signal.NewBus()
	b := NewBridge(bus, nil)

	var got signal.Payload
	calls := 0
	bus.Subscribe(popup.PositiveSignal, func(p signal.Payload) {
		calls++
		got = p
	})

	derr := b.DismissPositive(map[string]dbus.Variant{
		"source": dbus.MakeVariant("cli"),
		"count":  dbus.MakeVariant(int32(2)),
	})
	require.Nil(t, derr)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "cli", got["source"])
	assert.Equal(t, int32(2), got["count"])
}

func TestBridge_DismissNegativePublishes(t *testing.T) {
	bus := signal.NewBus()
	b := NewBridge(bus, nil)

	calls := 0
	bus.Subscribe(popup.NegativeSignal, func(signal.Payload) { calls++ })

	require.Nil(t, b.DismissNegative(nil))
	assert.Equal(t, 1, calls)
}

func TestBridge_EmptyPayloadBecomesNil(t *testing.T) {
	bus := signal.NewBus()
	b := NewBridge(bus, nil)

	var got signal.Payload = signal.Payload{"sentinel": true}
	bus.Subscribe(popup.PositiveSignal, func(p signal.Payload) { got = p })

	require.Nil(t, b.DismissPositive(map[string]dbus.Variant{}))
	assert.Nil(t, got)
}

func TestBridge_PublishArbitrarySignal(t *testing.T) {
	bus := signal.NewBus()
	b := NewBridge(bus, nil)

	calls := 0
	bus.Subscribe("custom.refresh", func(signal.Payload) { calls++ })

	require.Nil(t, b.Publish("custom.refresh", nil))
	assert.Equal(t, 1, calls)
}

func TestNewBridge_NilBusUsesDefault(t *testing.T) {
	b := NewBridge(nil, nil)
	assert.Same(t, signal.Default(), b.bus)
}
