// Package sound plays optional audio cues when a popup is presented or
// dismissed.
package sound
