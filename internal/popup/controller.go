package popup

import (
	"log/slog"
	"sync"
	"time"

	"github.com/carabina/popupkit/internal/appearance"
	"github.com/carabina/popupkit/internal/container"
	"github.com/carabina/popupkit/internal/layout"
	"github.com/carabina/popupkit/internal/signal"
	"github.com/carabina/popupkit/internal/transition"
)

// DismissDelay is the fixed interval between a processed dismissal signal
// and the dismiss request. It is tuned so UI feedback renders before the
// exit animation starts.
const DismissDelay = 150 * time.Millisecond

// Action is a caller-supplied dismissal callback. The payload carries
// contextual data from the triggering signal and may be nil.
type Action func(payload signal.Payload)

// State is a lifecycle state of the controller.
type State int

const (
	// StateCreated is the initial state after construction.
	StateCreated State = iota
	// StateViewLoaded means constraints are bound and dismissal-signal
	// subscriptions are active.
	StateViewLoaded
	// StatePresented means the popup is visible with the touch-capture
	// region installed.
	StatePresented
	// StateDismissing means one callback has fired and the deferred dismiss
	// is pending.
	StateDismissing
	// StateDisposed is terminal: subscriptions removed, view torn down.
	StateDisposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateViewLoaded:
		return "view-loaded"
	case StatePresented:
		return "presented"
	case StateDismissing:
		return "dismissing"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Controller orchestrates one popup presentation. It owns its wrapper views
// and transition manager exclusively; the content view is borrowed from the
// caller. Construct via New; there is no other valid construction path.
type Controller struct {
	mu     sync.Mutex
	logger *slog.Logger

	appearance *appearance.Appearance
	content    container.Content
	negative   Action
	positive   Action

	state State

	container   *container.Container
	shadow      *container.Shadow
	constraints *layout.ConstraintSet
	manager     *transition.Manager // created lazily at presentation time

	bus           *signal.Bus
	positiveToken signal.Token
	negativeToken signal.Token
	subscribed    bool

	scheduler Scheduler
	onDismiss func() // host teardown request
}

// New is the single factory entry point. It stores the content reference and
// the two outcome callbacks, builds the wrapper views, and nothing else: no
// layout, no signal subscriptions. Either callback may be nil.
//
// Construction without a content view is unsupported and fails fast: there
// is no valid state to build, so New panics with a descriptive message.
// Persistence and deserialization of controllers are likewise unsupported.
func New(content container.Content, negative, positive Action) *Controller {
	if content == nil {
		panic("popup: New requires a content view; construction without content is unsupported")
	}

	c := &Controller{
		logger:     slog.Default(),
		appearance: appearance.Default(),
		content:    content,
		negative:   negative,
		positive:   positive,
		state:      StateCreated,
		bus:        signal.Default(),
		scheduler:  timerScheduler{},
	}

	// Wrapper views are built eagerly, right after the content is known.
	c.container = container.NewContainer(content)
	c.shadow = container.NewShadow(c.container)

	return c
}

// SetAppearance overrides the appearance for this instance. Must be called
// before the view loads; mutation after constraints are bound has no effect
// on them.
func (c *Controller) SetAppearance(a *appearance.Appearance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appearance = a
}

// SetLogger overrides the controller's logger.
func (c *Controller) SetLogger(logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger != nil {
		c.logger = logger
	}
}

// SetBus overrides the signal bus. Intended for tests and embedding hosts;
// by default every controller shares the process-wide bus.
func (c *Controller) SetBus(b *signal.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus = b
}

// SetScheduler overrides the deferred-dismiss scheduler.
func (c *Controller) SetScheduler(s Scheduler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduler = s
}

// SetDismissHandler sets the host callback that tears the presented popup
// down, animated. Without a handler, Dismiss is a silent no-op.
func (c *Controller) SetDismissHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDismiss = fn
}

// Bus returns the signal bus this controller is subscribed on. Hosts route
// touch-dismiss events through it so instance-scoped buses keep working.
func (c *Controller) Bus() *signal.Bus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bus
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Appearance returns the appearance in effect for this instance.
func (c *Controller) Appearance() *appearance.Appearance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appearance
}

// Container returns the owned plain wrapper view.
func (c *Controller) Container() *container.Container {
	return c.container
}

// Shadow returns the owned shadow wrapper view.
func (c *Controller) Shadow() *container.Shadow {
	return c.shadow
}

// Constraints returns the bound constraint set, or nil before the view has
// loaded.
func (c *Controller) Constraints() *layout.ConstraintSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constraints
}

// ViewDidLoad is the host "did load" lifecycle event. It binds the four
// layout constraints against the parent bounds and registers for the two
// named dismissal signals. Constraints are bound exactly once per
// presentation; repeated calls are ignored.
func (c *Controller) ViewDidLoad(parent layout.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCreated {
		return
	}

	engine := layout.NewEngine(c.appearance, c.logger)
	c.constraints = engine.Bind(parent)

	rect := c.constraints.Resolve()
	c.container.SetSize(rect.Width, rect.Height)

	c.positiveToken = c.bus.Subscribe(PositiveSignal, c.handlePositive)
	c.negativeToken = c.bus.Subscribe(NegativeSignal, c.handleNegative)
	c.subscribed = true

	c.state = StateViewLoaded
	c.logger.Debug("popup view loaded", "parent_width", parent.Width, "parent_height", parent.Height)
}

// ViewWillAppear is the host "will appear" lifecycle event. The host is
// expected to have installed the full-bounds touch-capture view by now.
func (c *Controller) ViewWillAppear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateViewLoaded {
		return
	}
	c.state = StatePresented
	c.logger.Debug("popup presented")
}

// ViewDidDisappear is the host "did disappear" lifecycle event. It removes
// both signal subscriptions and moves to the terminal state. Idempotent:
// unregistering an unsubscribed handler is a no-op.
func (c *Controller) ViewDidDisappear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subscribed {
		c.bus.Unsubscribe(PositiveSignal, c.positiveToken)
		c.bus.Unsubscribe(NegativeSignal, c.negativeToken)
		c.subscribed = false
	}

	c.state = StateDisposed
	c.logger.Debug("popup disposed")
}

// Dismiss requests the host to tear down the presented popup, animated, with
// no completion hook. Calling it when not presented is a silent no-op.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	fn := c.onDismiss
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// handlePositive processes the positive dismissal signal.
func (c *Controller) handlePositive(payload signal.Payload) {
	c.handleSignal(c.positive, "positive", payload)
}

// handleNegative processes the negative dismissal signal.
func (c *Controller) handleNegative(payload signal.Payload) {
	c.handleSignal(c.negative, "negative", payload)
}

// handleSignal routes a dismissal signal: the matching callback fires at
// most once per dismissal, then the dismiss request is deferred by the
// fixed delay so feedback can render first. A second signal arriving during
// the delay window still schedules a redundant dismiss; Dismiss is
// idempotent against an already-dismissing popup.
func (c *Controller) handleSignal(action Action, outcome string, payload signal.Payload) {
	c.mu.Lock()

	switch c.state {
	case StatePresented:
		c.state = StateDismissing
	case StateDismissing:
		action = nil // callback already fired for this dismissal
	default:
		c.mu.Unlock()
		return
	}

	scheduler := c.scheduler
	c.mu.Unlock()

	if action != nil {
		action(payload)
	}

	c.logger.Debug("dismissal signal processed", "outcome", outcome)
	scheduler.After(DismissDelay, c.Dismiss)
}

// PresentationController supplies the host's modal presentation controller.
// The transition manager is created lazily, exactly once, on the first call
// for a given present operation and cached for the popup's lifetime.
func (c *Controller) PresentationController() *transition.Presentation {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manager == nil {
		c.manager = transition.NewManager(c.appearance)
	}
	return c.manager.PresentationController()
}

// AnimationControllerForPresented supplies the enter animation controller.
// The host must request the presentation controller first; before that the
// result is nil and behavior is undefined.
func (c *Controller) AnimationControllerForPresented() *transition.Animator {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manager == nil {
		return nil
	}
	return c.manager.AnimationController(transition.DirectionIn)
}

// AnimationControllerForDismissed supplies the exit animation controller,
// under the same ordering contract as AnimationControllerForPresented.
func (c *Controller) AnimationControllerForDismissed() *transition.Animator {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manager == nil {
		return nil
	}
	return c.manager.AnimationController(transition.DirectionOut)
}
