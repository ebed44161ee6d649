package transition

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/carabina/popupkit/internal/appearance"
	"github.com/carabina/popupkit/internal/layout"
)

// AnimatorFactory builds enter and exit animators from the appearance
// configuration, keyed by direction.
type AnimatorFactory struct {
	appearance *appearance.Appearance
}

// NewAnimatorFactory creates a factory for the given appearance.
func NewAnimatorFactory(a *appearance.Appearance) *AnimatorFactory {
	return &AnimatorFactory{appearance: a}
}

// Animator returns a fresh animator for the given direction. Enter animators
// tween progress from 0 to 1 with an ease-out curve; exit animators tween
// from 1 to 0 with
// an ease-in curve. A disabled or plain transition yields an animator that
// completes on its first update.
func (f *AnimatorFactory) Animator(d Direction) *Animator {
	style := f.appearance.Transition.Style
	if !f.appearance.Transition.Enabled {
		style = appearance.TransitionPlain
	}

	var duration time.Duration
	var begin, end float32
	var fn ease.TweenFunc

	if d == DirectionIn {
		duration = f.appearance.Transition.InDuration.Duration()
		begin, end = 0, 1
		fn = ease.OutQuad
	} else {
		duration = f.appearance.Transition.OutDuration.Duration()
		begin, end = 1, 0
		fn = ease.InQuad
	}

	if style == appearance.TransitionPlain {
		duration = 0
	}

	a := &Animator{
		direction: d,
		style:     style,
		slideFrom: f.appearance.Transition.Direction,
		duration:  duration,
		progress:  begin,
	}
	if duration > 0 {
		a.tween = gween.New(begin, end, float32(duration.Seconds()), fn)
	} else {
		a.progress = end
		a.done = true
	}
	return a
}

// Animator drives one enter or exit animation. The host steps it with
// Update(dt) each frame and reads Alpha/Scale/Offset to render the current
// transition state.
type Animator struct {
	direction Direction
	style     appearance.TransitionStyle
	slideFrom appearance.SlideDirection
	duration  time.Duration

	tween    *gween.Tween
	progress float32
	done     bool
}

// Update advances the animation by dt seconds and reports whether it has
// finished.
func (a *Animator) Update(dt float32) bool {
	if a.done {
		return true
	}
	val, finished := a.tween.Update(dt)
	a.progress = val
	a.done = finished
	return a.done
}

// Done reports whether the animation has finished.
func (a *Animator) Done() bool {
	return a.done
}

// Direction returns the animator's direction.
func (a *Animator) Direction() Direction {
	return a.direction
}

// Duration returns the animation's total duration.
func (a *Animator) Duration() time.Duration {
	return a.duration
}

// Progress returns the current animation progress in [0, 1]; 1 is fully
// presented.
func (a *Animator) Progress() float64 {
	return float64(a.progress)
}

// Alpha returns the container opacity for the current frame. Only the fade
// style attenuates opacity.
func (a *Animator) Alpha() float64 {
	if a.style == appearance.TransitionFade {
		return float64(a.progress)
	}
	return 1
}

// Scale returns the container scale factor for the current frame. Only the
// zoom style scales.
func (a *Animator) Scale() float64 {
	if a.style == appearance.TransitionZoom {
		return float64(a.progress)
	}
	return 1
}

// Offset returns the container offset from its resolved position for the
// current frame. Only the slide style offsets: the container travels in from
// the configured edge as progress approaches 1.
func (a *Animator) Offset(parent layout.Bounds, rect layout.Rect) (dx, dy int) {
	if a.style != appearance.TransitionSlide {
		return 0, 0
	}

	remain := 1 - float64(a.progress)
	switch a.slideFrom {
	case appearance.SlideFromTop:
		dy = -int(remain * float64(rect.Y+rect.Height))
	case appearance.SlideFromBottom:
		dy = int(remain * float64(parent.Height-rect.Y))
	case appearance.SlideFromLeft:
		dx = -int(remain * float64(rect.X+rect.Width))
	case appearance.SlideFromRight:
		dx = int(remain * float64(parent.Width-rect.X))
	}
	return dx, dy
}
