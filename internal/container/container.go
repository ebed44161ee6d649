// Package container provides the styled wrapper views hosting the caller's
// popup content: a plain pass-through wrapper and a shadow-decorated wrapper.
package container

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Content is the caller-supplied view hosted by a container. The container
// borrows the reference; it does not manage the content's lifetime beyond
// display.
type Content interface {
	View() string
}

// StringContent adapts a plain string to the Content interface.
type StringContent string

// View returns the string itself.
func (s StringContent) View() string {
	return string(s)
}

var (
	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	shadowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// Container is the plain wrapper view. The content, when present, is
// stretched to fill the wrapper on all four edges.
type Container struct {
	content Content
	style   lipgloss.Style
	width   int
	height  int
}

// NewContainer creates a plain wrapper around the given content. A nil
// content renders as an empty wrapper.
func NewContainer(content Content) *Container {
	return &Container{
		content: content,
		style:   containerStyle,
	}
}

// SetStyle overrides the wrapper style.
func (c *Container) SetStyle(style lipgloss.Style) {
	c.style = style
}

// SetSize sets the wrapper's outer dimensions in cells.
func (c *Container) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Size returns the wrapper's outer dimensions.
func (c *Container) Size() (width, height int) {
	return c.width, c.height
}

// Content returns the hosted content view.
func (c *Container) Content() Content {
	return c.content
}

// Render produces the wrapper with the content filling its inner region.
func (c *Container) Render() string {
	innerW := c.width - c.style.GetHorizontalFrameSize()
	innerH := c.height - c.style.GetVerticalFrameSize()
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}

	var body string
	if c.content != nil {
		body = c.content.View()
	}

	// Stretch the content to fill the wrapper on all four edges.
	filled := lipgloss.Place(innerW, innerH, lipgloss.Left, lipgloss.Top, body)

	return c.style.Render(filled)
}

// Shadow is the shadow-decorated wrapper. It always contains exactly one
// child: the plain wrapper.
type Shadow struct {
	child *Container
}

// NewShadow wraps the plain container in a shadow decoration.
func NewShadow(child *Container) *Shadow {
	return &Shadow{child: child}
}

// Child returns the wrapped plain container.
func (s *Shadow) Child() *Container {
	return s.child
}

// Render produces the child wrapper with a one-cell shadow cast down and to
// the right.
func (s *Shadow) Render() string {
	inner := s.child.Render()
	lines := strings.Split(inner, "\n")
	if len(lines) == 0 {
		return inner
	}

	width := lipgloss.Width(inner)
	edge := shadowStyle.Render("░")

	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		if i == 0 {
			// No shadow beside the top edge
			b.WriteString(" ")
		} else {
			b.WriteString(edge)
		}
		b.WriteString("\n")
	}
	b.WriteString(" ")
	b.WriteString(shadowStyle.Render(strings.Repeat("░", width)))

	return b.String()
}
