package layout

import (
	"log/slog"
	"math"

	"github.com/carabina/popupkit/internal/appearance"
)

// StatusBarOffset is a fixed correction added to top-anchored popups so they
// clear the host status line. It is a known simplification: the value is not
// adaptive to the actual status bar state.
const StatusBarOffset = 20

// Attribute identifies the parent attribute a constraint aligns against.
type Attribute int

const (
	AttrCenterX Attribute = iota
	AttrCenterY
	AttrLeading
	AttrTrailing
	AttrTop
	AttrBottom
	AttrWidth
	AttrHeight
)

// String returns the attribute name.
func (a Attribute) String() string {
	switch a {
	case AttrCenterX:
		return "center-x"
	case AttrCenterY:
		return "center-y"
	case AttrLeading:
		return "leading"
	case AttrTrailing:
		return "trailing"
	case AttrTop:
		return "top"
	case AttrBottom:
		return "bottom"
	case AttrWidth:
		return "width"
	case AttrHeight:
		return "height"
	default:
		return "unknown"
	}
}

// Bounds is the parent region the popup is laid out in, in cells.
type Bounds struct {
	Width  int
	Height int
}

// Rect is a resolved popup rectangle within the parent region.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Constraint aligns one container attribute against the parent with an
// optional multiplier and constant offset.
type Constraint struct {
	Attribute  Attribute
	Multiplier float64
	Constant   int
	Active     bool
}

// ConstraintSet holds the four bound constraints for one popup presentation.
// It is owned exclusively by the popup controller, computed once when the
// view loads, and never recomputed unless the controller is torn down and
// re-presented.
type ConstraintSet struct {
	Horizontal Constraint
	Vertical   Constraint
	Width      Constraint
	Height     Constraint

	parent Bounds
}

// Bound reports whether all four constraints have been activated.
func (s *ConstraintSet) Bound() bool {
	return s.Horizontal.Active && s.Vertical.Active && s.Width.Active && s.Height.Active
}

// Parent returns the parent bounds the set was bound against.
func (s *ConstraintSet) Parent() Bounds {
	return s.parent
}

// Engine computes and binds layout constraints from an appearance
// configuration.
type Engine struct {
	appearance *appearance.Appearance
	logger     *slog.Logger
}

// NewEngine creates a positioning engine for the given appearance.
func NewEngine(a *appearance.Appearance, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{appearance: a, logger: logger}
}

// Bind computes and activates the four constraints against the parent
// bounds, in the order horizontal, vertical, height, width. Each step
// activates its constraint immediately rather than deferring to a batch.
// Binding is deterministic and idempotent: rebinding against the same
// parent yields the same effective values.
func (e *Engine) Bind(parent Bounds) *ConstraintSet {
	set := &ConstraintSet{parent: parent}

	e.bindHorizontal(set)
	e.bindVertical(set)
	e.bindHeight(set)
	e.bindWidth(set)

	e.logger.Debug("constraints bound",
		"anchor", e.appearance.Anchor,
		"horizontal", set.Horizontal.Attribute.String(),
		"vertical", set.Vertical.Attribute.String(),
	)

	return set
}

// bindHorizontal selects the horizontal rule for the anchor: Left and Right
// pin to the matching edge with a padding offset, everything else centers.
func (e *Engine) bindHorizontal(set *ConstraintSet) {
	switch e.appearance.Anchor {
	case appearance.AnchorLeft:
		set.Horizontal = Constraint{Attribute: AttrLeading, Multiplier: 1, Constant: e.appearance.Padding.Left}
	case appearance.AnchorRight:
		set.Horizontal = Constraint{Attribute: AttrTrailing, Multiplier: 1, Constant: -e.appearance.Padding.Right}
	default: // Center, Top, Bottom
		set.Horizontal = Constraint{Attribute: AttrCenterX, Multiplier: 1}
	}
	set.Horizontal.Active = true
}

// bindVertical selects the vertical rule for the anchor: Top and Bottom pin
// to the matching edge (Top additionally clears the status bar), everything
// else centers.
func (e *Engine) bindVertical(set *ConstraintSet) {
	switch e.appearance.Anchor {
	case appearance.AnchorTop:
		set.Vertical = Constraint{Attribute: AttrTop, Multiplier: 1, Constant: e.appearance.Padding.Top + StatusBarOffset}
	case appearance.AnchorBottom:
		set.Vertical = Constraint{Attribute: AttrBottom, Multiplier: 1, Constant: -e.appearance.Padding.Bottom}
	default: // Center, Left, Right
		set.Vertical = Constraint{Attribute: AttrCenterY, Multiplier: 1}
	}
	set.Vertical.Active = true
}

// bindHeight pins the container height to a fraction of the parent height,
// independent of anchor.
func (e *Engine) bindHeight(set *ConstraintSet) {
	set.Height = Constraint{Attribute: AttrHeight, Multiplier: e.appearance.HeightMultiplier, Active: true}
}

// bindWidth pins the container width to a fraction of the parent width,
// independent of anchor.
func (e *Engine) bindWidth(set *ConstraintSet) {
	set.Width = Constraint{Attribute: AttrWidth, Multiplier: e.appearance.WidthMultiplier, Active: true}
}

// Resolve turns the bound constraint set into a concrete rectangle within
// the parent region. Degenerate multipliers resolve to degenerate rects;
// positions are clamped to the parent origin.
func (s *ConstraintSet) Resolve() Rect {
	w := int(math.Round(float64(s.parent.Width) * s.Width.Multiplier))
	h := int(math.Round(float64(s.parent.Height) * s.Height.Multiplier))

	var x int
	switch s.Horizontal.Attribute {
	case AttrLeading:
		x = s.Horizontal.Constant
	case AttrTrailing:
		x = s.parent.Width - w + s.Horizontal.Constant
	default: // AttrCenterX
		x = (s.parent.Width - w) / 2
	}

	var y int
	switch s.Vertical.Attribute {
	case AttrTop:
		y = s.Vertical.Constant
	case AttrBottom:
		y = s.parent.Height - h + s.Vertical.Constant
	default: // AttrCenterY
		y = (s.parent.Height - h) / 2
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}
