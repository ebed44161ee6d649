package popup

import "github.com/carabina/popupkit/internal/signal"

// Names of the two dismissal signals on the process-wide bus.
const (
	PositiveSignal = "popupkit.dismiss.positive"
	NegativeSignal = "popupkit.dismiss.negative"
)

// SendPositiveSignal broadcasts the positive dismissal signal with an
// optional payload. Every currently-subscribed popup instance receives it:
// signals are process-wide, not instance-scoped, so multiple concurrently
// presented popups all resolve on the same broadcast.
func SendPositiveSignal(payload signal.Payload) {
	signal.Default().Publish(PositiveSignal, payload)
}

// SendNegativeSignal broadcasts the negative dismissal signal with an
// optional payload, under the same broadcast semantics as
// SendPositiveSignal.
func SendNegativeSignal(payload signal.Payload) {
	signal.Default().Publish(NegativeSignal, payload)
}
