// Package layout implements the popup positioning engine. It translates an
// anchor position plus padding and size multipliers into the four layout
// constraints (horizontal, vertical, width, height) that pin the popup
// container to its parent region, and resolves them to a concrete cell
// rectangle.
package layout
