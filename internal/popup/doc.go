// Package popup implements the popup controller: the orchestrating entity
// owning the content view, the action callbacks, the lifecycle state
// machine, and the signal-based dismissal protocol.
package popup
