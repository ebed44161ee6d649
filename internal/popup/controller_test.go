package popup

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carabina/popupkit/internal/container"
	"github.com/carabina/popupkit/internal/layout"
	"github.com/carabina/popupkit/internal/signal"
)

// fakeScheduler records deferred work instead of waiting for timers.
type fakeScheduler struct {
	mu    sync.Mutex
	calls []scheduled
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

func (f *fakeScheduler) After(d time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, scheduled{delay: d, fn: fn})
}

func (f *fakeScheduler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeScheduler) runAll() {
	f.mu.Lock()
	calls := f.calls
	f.calls = nil
	f.mu.Unlock()
	for _, c := range calls {
		c.fn()
	}
}

type fixture struct {
	controller *Controller
	bus        *signal.Bus
	scheduler  *fakeScheduler
	positives  []signal.Payload
	negatives  []signal.Payload
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		bus:       signal.NewBus(),
		scheduler: &fakeScheduler{},
	}
	f.controller = New(container.StringContent("are you sure?"),
		func(p signal.Payload) { f.negatives = append(f.negatives, p) },
		func(p signal.Payload) { f.positives = append(f.positives, p) },
	)
	f.controller.SetBus(f.bus)
	f.controller.SetScheduler(f.scheduler)
	return f
}

func (f *fixture) present() {
	f.controller.ViewDidLoad(layout.Bounds{Width: 100, Height: 40})
	f.controller.ViewWillAppear()
}

func TestNew_NilContentFailsFast(t *testing.T) {
	assert.PanicsWithValue(t,
		"popup: New requires a content view; construction without content is unsupported",
		func() { New(nil, nil, nil) },
	)
}

func TestNew_InitialState(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, StateCreated, f.controller.State())
	assert.Nil(t, f.controller.Constraints())
	require.NotNil(t, f.controller.Container())
	require.NotNil(t, f.controller.Shadow())
	assert.Same(t, f.controller.Container(), f.controller.Shadow().Child())
	// No signal subscriptions before the view loads.
	assert.Equal(t, 0, f.bus.SubscriberCount(PositiveSignal))
}

func TestViewDidLoad_BindsConstraintsAndSubscribes(t *testing.T) {
	f := newFixture(t)

	f.controller.ViewDidLoad(layout.Bounds{Width: 100, Height: 40})

	assert.Equal(t, StateViewLoaded, f.controller.State())
	require.NotNil(t, f.controller.Constraints())
	assert.True(t, f.controller.Constraints().Bound())
	assert.Equal(t, 1, f.bus.SubscriberCount(PositiveSignal))
	assert.Equal(t, 1, f.bus.SubscriberCount(NegativeSignal))
}

func TestViewDidLoad_BindOnce(t *testing.T) {
	f := newFixture(t)

	f.controller.ViewDidLoad(layout.Bounds{Width: 100, Height: 40})
	first := f.controller.Constraints()

	// Repeated load events must not rebuild constraints.
	f.controller.ViewDidLoad(layout.Bounds{Width: 10, Height: 10})

	assert.Same(t, first, f.controller.Constraints())
	assert.Equal(t, 1, f.bus.SubscriberCount(PositiveSignal))
}

func TestPositiveSignal_InvokesPositiveOnly(t *testing.T) {
	f := newFixture(t)
	f.present()

	f.bus.Publish(PositiveSignal, signal.Payload{"choice": "ok"})

	require.Len(t, f.positives, 1)
	assert.Equal(t, signal.Payload{"choice": "ok"}, f.positives[0])
	assert.Empty(t, f.negatives)
	assert.Equal(t, StateDismissing, f.controller.State())
}

func TestNegativeSignal_InvokesNegativeOnly(t *testing.T) {
	f := newFixture(t)
	f.present()

	f.bus.Publish(NegativeSignal, nil)

	require.Len(t, f.negatives, 1)
	assert.Empty(t, f.positives)
}

func TestSignal_SchedulesDismissAfterFixedDelay(t *testing.T) {
	f := newFixture(t)
	f.present()

	dismissed := 0
	f.controller.SetDismissHandler(func() { dismissed++ })

	f.bus.Publish(NegativeSignal, nil)

	require.Equal(t, 1, f.scheduler.count())
	assert.Equal(t, DismissDelay, f.scheduler.calls[0].delay)
	assert.Equal(t, 0, dismissed, "dismiss must wait for the delay")

	f.scheduler.runAll()
	assert.Equal(t, 1, dismissed)
}

func TestRepeatedSignal_SingleCallbackDoubleSchedule(t *testing.T) {
	f := newFixture(t)
	f.present()

	dismissed := 0
	f.controller.SetDismissHandler(func() { dismissed++ })

	f.bus.Publish(NegativeSignal, nil)
	f.bus.Publish(NegativeSignal, nil)
	f.bus.Publish(PositiveSignal, nil)

	// Exactly one callback fired, the first one.
	assert.Len(t, f.negatives, 1)
	assert.Empty(t, f.positives)

	// Each processed signal schedules a redundant dismiss.
	assert.Equal(t, 3, f.scheduler.count())
	assert.NotPanics(t, f.scheduler.runAll)
	assert.Equal(t, 3, dismissed)
}

func TestSignal_IgnoredBeforePresented(t *testing.T) {
	f := newFixture(t)
	f.controller.ViewDidLoad(layout.Bounds{Width: 100, Height: 40})

	f.bus.Publish(PositiveSignal, nil)

	assert.Empty(t, f.positives)
	assert.Equal(t, StateViewLoaded, f.controller.State())
	assert.Equal(t, 0, f.scheduler.count())
}

func TestViewDidDisappear_UnsubscribesAndDisposes(t *testing.T) {
	f := newFixture(t)
	f.present()

	f.controller.ViewDidDisappear()

	assert.Equal(t, StateDisposed, f.controller.State())
	assert.Equal(t, 0, f.bus.SubscriberCount(PositiveSignal))
	assert.Equal(t, 0, f.bus.SubscriberCount(NegativeSignal))

	// Redelivery after teardown must not invoke callbacks.
	f.bus.Publish(NegativeSignal, nil)
	assert.Empty(t, f.negatives)
}

func TestViewDidDisappear_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.present()

	f.controller.ViewDidDisappear()
	assert.NotPanics(t, f.controller.ViewDidDisappear)
	assert.Equal(t, StateDisposed, f.controller.State())
}

func TestDismiss_NoHandlerIsSilent(t *testing.T) {
	f := newFixture(t)
	f.present()

	assert.NotPanics(t, f.controller.Dismiss)
}

func TestRoundTrip_NegativeDismissal(t *testing.T) {
	f := newFixture(t)

	f.controller.SetDismissHandler(func() {
		// Host teardown completes and reports back.
		f.controller.ViewDidDisappear()
	})

	f.controller.ViewDidLoad(layout.Bounds{Width: 100, Height: 40})
	bound := f.controller.Constraints()
	f.controller.ViewWillAppear()

	f.bus.Publish(NegativeSignal, signal.Payload{"reason": "cancel"})
	f.scheduler.runAll()

	assert.Equal(t, StateDisposed, f.controller.State())
	require.Len(t, f.negatives, 1)
	assert.Equal(t, signal.Payload{"reason": "cancel"}, f.negatives[0])
	assert.Empty(t, f.positives)
	// Bind-once invariant: the constraint set never changed across the
	// presented lifetime.
	assert.Same(t, bound, f.controller.Constraints())
}

func TestPresentationController_LazyOnce(t *testing.T) {
	f := newFixture(t)

	// Animation requested out of order: manager does not exist yet.
	assert.Nil(t, f.controller.AnimationControllerForPresented())
	assert.Nil(t, f.controller.AnimationControllerForDismissed())

	first := f.controller.PresentationController()
	second := f.controller.PresentationController()
	require.NotNil(t, first)
	assert.Same(t, first, second)

	enter := f.controller.AnimationControllerForPresented()
	exit := f.controller.AnimationControllerForDismissed()
	require.NotNil(t, enter)
	require.NotNil(t, exit)
	assert.NotSame(t, enter, exit)
}

func TestSendSignals_BroadcastToAllLivePopups(t *testing.T) {
	// Two concurrently-presented popups on the same bus both receive the
	// broadcast; signals are not instance-scoped.
	bus := signal.NewBus()
	sched := &fakeScheduler{}

	var fired []string
	a := New(container.StringContent("a"), func(signal.Payload) { fired = append(fired, "a") }, nil)
	b := New(container.StringContent("b"), func(signal.Payload) { fired = append(fired, "b") }, nil)
	for _, c := range []*Controller{a, b} {
		c.SetBus(bus)
		c.SetScheduler(sched)
		c.ViewDidLoad(layout.Bounds{Width: 80, Height: 24})
		c.ViewWillAppear()
	}

	bus.Publish(NegativeSignal, nil)

	assert.ElementsMatch(t, []string{"a", "b"}, fired)
}
