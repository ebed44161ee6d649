// Package transition supplies the modal presentation controller and the
// enter/exit animation controllers for one popup presentation. Animations
// are tweens stepped by host frame callbacks.
package transition

import (
	"time"

	"github.com/carabina/popupkit/internal/appearance"
)

// Direction keys the animation factory: In is the enter animation, Out the
// exit animation.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
)

// String returns the direction name.
func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// Presentation describes the modal-overlay geometry for one presentation:
// backdrop dimming and whether the full-bounds touch-capture region should
// route taps to dismissal.
type Presentation struct {
	DimBackdrop         bool
	TouchOutsideDismiss bool
}

// Manager owns the animation factory and the cached presentation controller
// for a single present operation. It is created lazily, exactly once, on the
// first request for a presentation controller, and cached for the remainder
// of that popup's lifetime.
type Manager struct {
	appearance   *appearance.Appearance
	factory      *AnimatorFactory
	presentation *Presentation
}

// NewManager creates a transition manager for the given appearance.
func NewManager(a *appearance.Appearance) *Manager {
	return &Manager{
		appearance: a,
		factory:    NewAnimatorFactory(a),
	}
}

// PresentationController returns the presentation controller, creating it on
// first call and caching it thereafter.
func (m *Manager) PresentationController() *Presentation {
	if m.presentation == nil {
		m.presentation = &Presentation{
			DimBackdrop:         m.appearance.Backdrop.Dim,
			TouchOutsideDismiss: m.appearance.TouchOutsideDismiss,
		}
	}
	return m.presentation
}

// AnimationController returns the animation controller for the given
// direction from the factory. The host is expected to request the
// presentation controller before either animation controller.
func (m *Manager) AnimationController(d Direction) *Animator {
	return m.factory.Animator(d)
}

// Duration returns the configured duration for the given direction.
func (m *Manager) Duration(d Direction) time.Duration {
	if d == DirectionOut {
		return m.appearance.Transition.OutDuration.Duration()
	}
	return m.appearance.Transition.InDuration.Duration()
}
