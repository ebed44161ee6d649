// Package remote exposes popup dismissal over D-Bus so external processes
// can resolve an on-screen popup.
package remote

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/carabina/popupkit/internal/popup"
	"github.com/carabina/popupkit/internal/signal"
)

const (
	// BridgeInterface is the popup control interface name.
	BridgeInterface = "com.carabina.PopupKit1"
	// BridgePath is the popup control object path.
	BridgePath = "/com/carabina/PopupKit1"
	// BridgeBusName is the bus name to claim.
	BridgeBusName = "com.carabina.PopupKit"
)

// Bridge exports popup dismissal methods on the session bus. Method calls
// are translated into broadcasts on a signal bus, so they reach every popup
// currently subscribed, exactly like an in-process publish.
type Bridge struct {
	logger *slog.Logger
	bus    *signal.Bus

	mu      sync.Mutex
	conn    *dbus.Conn
	running bool
}

// NewBridge creates a bridge publishing onto the given signal bus. A nil bus
// falls back to the process-wide default; a nil logger to slog.Default().
func NewBridge(bus *signal.Bus, logger *slog.Logger) *Bridge {
	if bus == nil {
		bus = signal.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{logger: logger, bus: bus}
}

// Start connects to the session bus and exports the control object.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return fmt.Errorf("bridge already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	b.conn = conn

	if err := conn.Export(b, BridgePath, BridgeInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: BridgePath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    BridgeInterface,
				Methods: bridgeMethods(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), BridgePath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BridgeBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BridgeBusName)
	}

	b.running = true
	b.logger.Info("D-Bus popup bridge started", "interface", BridgeInterface, "path", BridgePath)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return nil
	}
	b.running = false

	if b.conn != nil {
		if _, err := b.conn.ReleaseName(BridgeBusName); err != nil {
			b.logger.Warn("failed to release bus name", "error", err)
		}
	}

	b.logger.Info("D-Bus popup bridge stopped")
	return nil
}

// DismissPositive broadcasts a positive dismissal to all live popups.
// D-Bus method: DismissPositive(a{sv}) -> nothing
func (b *Bridge) DismissPositive(payload map[string]dbus.Variant) *dbus.Error {
	b.logger.Debug("DismissPositive called")
	b.bus.Publish(popup.PositiveSignal, fromVariants(payload))
	return nil
}

// DismissNegative broadcasts a negative dismissal to all live popups.
// D-Bus method: DismissNegative(a{sv}) -> nothing
func (b *Bridge) DismissNegative(payload map[string]dbus.Variant) *dbus.Error {
	b.logger.Debug("DismissNegative called")
	b.bus.Publish(popup.NegativeSignal, fromVariants(payload))
	return nil
}

// Publish broadcasts an arbitrary named signal.
// D-Bus method: Publish(sa{sv}) -> nothing
func (b *Bridge) Publish(name string, payload map[string]dbus.Variant) *dbus.Error {
	b.logger.Debug("Publish called", "signal", name)
	b.bus.Publish(name, fromVariants(payload))
	return nil
}

// fromVariants unwraps a D-Bus payload into a plain signal payload. Empty
// maps become nil, matching an in-process publish with no payload.
func fromVariants(payload map[string]dbus.Variant) signal.Payload {
	if len(payload) == 0 {
		return nil
	}
	out := make(signal.Payload, len(payload))
	for k, v := range payload {
		out[k] = v.Value()
	}
	return out
}

// bridgeMethods returns the D-Bus method introspection data.
func bridgeMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "DismissPositive",
			Args: []introspect.Arg{
				{Name: "payload", Type: "a{sv}", Direction: "in"},
			},
		},
		{
			Name: "DismissNegative",
			Args: []introspect.Arg{
				{Name: "payload", Type: "a{sv}", Direction: "in"},
			},
		},
		{
			Name: "Publish",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "payload", Type: "a{sv}", Direction: "in"},
			},
		},
	}
}
