// Package tui provides the Bubble Tea host glue for popup presentation: it
// composites the popup container over the parent view, drives lifecycle
// callbacks and animation frames, and routes outside-clicks to dismissal.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carabina/popupkit/internal/container"
	"github.com/carabina/popupkit/internal/layout"
	"github.com/carabina/popupkit/internal/popup"
	"github.com/carabina/popupkit/internal/transition"
)

// frameInterval is the animation frame period.
const frameInterval = time.Second / 30

// frameMsg is an animation frame tick.
type frameMsg time.Time

// DismissRequestMsg asks the presenter to start the exit transition. The
// controller's dismiss handler sends it when the deferred dismiss fires.
type DismissRequestMsg struct{}

type phase int

const (
	phaseLoading phase = iota
	phaseEntering
	phaseVisible
	phaseExiting
	phaseDone
)

var backdropStyle = lipgloss.NewStyle().Faint(true)

// Presenter is a tea.Model that presents one popup controller modally over a
// parent view.
type Presenter struct {
	controller *popup.Controller
	parent     container.Content
	keys       KeyMap
	logger     *slog.Logger

	width  int
	height int

	phase        phase
	presentation *transition.Presentation
	anim         *transition.Animator
	lastFrame    time.Time
}

// NewPresenter creates a presenter for the given controller and parent view.
// A nil parent presents over an empty background.
func NewPresenter(c *popup.Controller, parent container.Content) *Presenter {
	return &Presenter{
		controller: c,
		parent:     parent,
		keys:       DefaultKeyMap(),
		logger:     slog.Default(),
	}
}

// SetLogger overrides the presenter's logger.
func (p *Presenter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Init starts the animation frame loop.
func (p *Presenter) Init() tea.Cmd {
	p.lastFrame = time.Now()
	return p.tick()
}

func (p *Presenter) tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update drives the popup lifecycle from host events.
func (p *Presenter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		if p.phase == phaseLoading && p.width > 0 && p.height > 0 {
			p.present()
		}
		return p, nil

	case frameMsg:
		return p, p.frame(time.Time(msg))

	case DismissRequestMsg:
		p.beginExit()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Positive):
			p.controller.Bus().Publish(popup.PositiveSignal, nil)
		case key.Matches(msg, p.keys.Negative):
			p.controller.Bus().Publish(popup.NegativeSignal, nil)
		}
		return p, nil

	case tea.MouseMsg:
		p.handleMouse(msg)
		return p, nil
	}

	return p, nil
}

// present runs the load/appear lifecycle once the parent bounds are known.
func (p *Presenter) present() {
	p.controller.ViewDidLoad(p.bounds())

	// The host requests the presentation controller before either animation
	// controller, per the transition delegate contract.
	p.presentation = p.controller.PresentationController()
	p.anim = p.controller.AnimationControllerForPresented()

	p.controller.ViewWillAppear()
	p.phase = phaseEntering
}

// frame advances the active animation and handles phase completion.
func (p *Presenter) frame(now time.Time) tea.Cmd {
	dt := float32(now.Sub(p.lastFrame).Seconds())
	p.lastFrame = now

	if p.anim != nil && !p.anim.Done() {
		p.anim.Update(dt)
	}

	switch p.phase {
	case phaseEntering:
		if p.anim == nil || p.anim.Done() {
			p.phase = phaseVisible
		}
	case phaseExiting:
		if p.anim == nil || p.anim.Done() {
			p.phase = phaseDone
			p.controller.ViewDidDisappear()
			return tea.Quit
		}
	}

	return p.tick()
}

// beginExit switches to the exit animation. Redundant requests while already
// exiting are no-ops.
func (p *Presenter) beginExit() {
	if p.phase != phaseEntering && p.phase != phaseVisible {
		return
	}
	p.phase = phaseExiting
	p.anim = p.controller.AnimationControllerForDismissed()
}

// handleMouse implements the full-bounds touch-capture view: a click outside
// the popup rect triggers the negative outcome when touch-outside dismissal
// is enabled.
func (p *Presenter) handleMouse(msg tea.MouseMsg) {
	if p.presentation == nil || !p.presentation.TouchOutsideDismiss {
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	set := p.controller.Constraints()
	if set == nil {
		return
	}
	rect := set.Resolve()
	inside := msg.X >= rect.X && msg.X < rect.X+rect.Width &&
		msg.Y >= rect.Y && msg.Y < rect.Y+rect.Height
	if !inside {
		p.controller.Bus().Publish(popup.NegativeSignal, nil)
	}
}

func (p *Presenter) bounds() layout.Bounds {
	return layout.Bounds{Width: p.width, Height: p.height}
}

// View composites backdrop, shadow and container for the current frame.
func (p *Presenter) View() string {
	var bg string
	if p.parent != nil {
		bg = p.parent.View()
	}

	if p.phase == phaseLoading || p.phase == phaseDone {
		return bg
	}

	if p.presentation != nil && p.presentation.DimBackdrop {
		bg = backdropStyle.Render(bg)
	}

	set := p.controller.Constraints()
	if set == nil {
		return bg
	}
	rect := set.Resolve()

	alpha, scale := 1.0, 1.0
	dx, dy := 0, 0
	if p.anim != nil {
		alpha = p.anim.Alpha()
		scale = p.anim.Scale()
		dx, dy = p.anim.Offset(p.bounds(), rect)
	}

	if alpha == 0 || scale == 0 {
		return bg
	}

	// Zoom scales the container around its resolved center.
	w := int(float64(rect.Width) * scale)
	h := int(float64(rect.Height) * scale)
	x := rect.X + (rect.Width-w)/2 + dx
	y := rect.Y + (rect.Height-h)/2 + dy

	p.controller.Container().SetSize(w, h)

	var view string
	if p.controller.Appearance().Shadow {
		view = p.controller.Shadow().Render()
	} else {
		view = p.controller.Container().Render()
	}
	if alpha < 1 {
		view = backdropStyle.Render(view)
	}

	return composite(bg, view, x, y, p.width, p.height)
}

// Run presents the controller modally over the parent view, blocking until
// the popup is disposed.
func Run(c *popup.Controller, parent container.Content) error {
	p := NewPresenter(c, parent)
	prog := tea.NewProgram(p, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// The deferred dismiss fires on a timer goroutine; route it back onto
	// the program's event loop.
	c.SetDismissHandler(func() {
		prog.Send(DismissRequestMsg{})
	})

	_, err := prog.Run()
	return err
}
