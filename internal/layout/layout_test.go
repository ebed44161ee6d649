package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carabina/popupkit/internal/appearance"
)

func engineFor(mutate func(*appearance.Appearance)) *Engine {
	a := appearance.New()
	if mutate != nil {
		mutate(a)
	}
	return NewEngine(a, nil)
}

func TestBind_RuleSelectionPerAnchor(t *testing.T) {
	tests := []struct {
		anchor     appearance.Anchor
		horizontal Attribute
		vertical   Attribute
	}{
		{appearance.AnchorCenter, AttrCenterX, AttrCenterY},
		{appearance.AnchorLeft, AttrLeading, AttrCenterY},
		{appearance.AnchorRight, AttrTrailing, AttrCenterY},
		{appearance.AnchorTop, AttrCenterX, AttrTop},
		{appearance.AnchorBottom, AttrCenterX, AttrBottom},
	}

	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			e := engineFor(func(a *appearance.Appearance) { a.Anchor = tt.anchor })
			set := e.Bind(Bounds{Width: 100, Height: 40})

			assert.Equal(t, tt.horizontal, set.Horizontal.Attribute)
			assert.Equal(t, tt.vertical, set.Vertical.Attribute)
			// Width/height rules are always multiplier-based regardless of anchor.
			assert.Equal(t, AttrWidth, set.Width.Attribute)
			assert.Equal(t, AttrHeight, set.Height.Attribute)
			assert.True(t, set.Bound())
		})
	}
}

func TestBind_TopAnchorAddsStatusBarOffset(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorTop
		a.Padding.Top = 10
	})
	set := e.Bind(Bounds{Width: 100, Height: 40})

	assert.Equal(t, 30, set.Vertical.Constant)
}

func TestBind_BottomAnchorNegativePadding(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorBottom
		a.Padding.Bottom = 15
	})
	set := e.Bind(Bounds{Width: 100, Height: 40})

	assert.Equal(t, -15, set.Vertical.Constant)
}

func TestBind_LeftRightPaddingOffsets(t *testing.T) {
	left := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorLeft
		a.Padding.Left = 6
	}).Bind(Bounds{Width: 100, Height: 40})
	assert.Equal(t, 6, left.Horizontal.Constant)

	right := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorRight
		a.Padding.Right = 3
	}).Bind(Bounds{Width: 100, Height: 40})
	assert.Equal(t, -3, right.Horizontal.Constant)
}

func TestBind_SizeMultipliers(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.WidthMultiplier = 0.5
		a.HeightMultiplier = 0.25
	})
	set := e.Bind(Bounds{Width: 100, Height: 40})

	assert.Equal(t, 0.5, set.Width.Multiplier)
	assert.Equal(t, 0.25, set.Height.Multiplier)
}

func TestBind_Idempotent(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorTop
		a.Padding.Top = 10
	})

	first := e.Bind(Bounds{Width: 100, Height: 40})
	second := e.Bind(Bounds{Width: 100, Height: 40})

	assert.Equal(t, first.Horizontal, second.Horizontal)
	assert.Equal(t, first.Vertical, second.Vertical)
	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Height, second.Height)
	assert.Equal(t, first.Resolve(), second.Resolve())
}

func TestResolve_Center(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.WidthMultiplier = 0.5
		a.HeightMultiplier = 0.5
	})
	rect := e.Bind(Bounds{Width: 100, Height: 40}).Resolve()

	assert.Equal(t, Rect{X: 25, Y: 10, Width: 50, Height: 20}, rect)
}

func TestResolve_BottomRight(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorRight
		a.Padding.Right = 2
		a.WidthMultiplier = 0.3
		a.HeightMultiplier = 0.5
	})
	rect := e.Bind(Bounds{Width: 100, Height: 40}).Resolve()

	// Trailing edge: parent width minus popup width minus right padding.
	assert.Equal(t, 100-30-2, rect.X)
	assert.Equal(t, 10, rect.Y) // vertically centered
}

func TestResolve_ClampsToOrigin(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorTop
		a.Padding.Top = 0
		a.HeightMultiplier = 1.0
	})
	// Parent shorter than the status bar offset.
	rect := e.Bind(Bounds{Width: 10, Height: 5}).Resolve()

	assert.GreaterOrEqual(t, rect.X, 0)
	assert.Equal(t, StatusBarOffset, rect.Y) // constant wins; clamping applies to negatives only
}

func TestResolve_BottomOffset(t *testing.T) {
	e := engineFor(func(a *appearance.Appearance) {
		a.Anchor = appearance.AnchorBottom
		a.Padding.Bottom = 4
		a.HeightMultiplier = 0.5
	})
	rect := e.Bind(Bounds{Width: 100, Height: 40}).Resolve()

	assert.Equal(t, 40-20-4, rect.Y)
}
