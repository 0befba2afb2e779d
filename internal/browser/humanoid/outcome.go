package humanoid

import "errors"

// Status classifies how a primitive finished.
type Status int

const (
	// StatusSuccess means the simulated interaction ran as intended.
	StatusSuccess Status = iota
	// StatusDegraded means the interaction was skipped or replaced by a fallback.
	StatusDegraded
	// StatusFailed means neither the interaction nor its fallback worked.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a primitive. Primitives never return errors;
// callers decide whether a degraded or failed outcome matters.
type Outcome struct {
	Status Status
	Reason string
}

// Succeeded returns a success outcome.
func Succeeded() Outcome { return Outcome{Status: StatusSuccess} }

// Degraded returns a degraded outcome with a reason.
func Degraded(reason string) Outcome { return Outcome{Status: StatusDegraded, Reason: reason} }

// Failed returns a failed outcome with a reason.
func Failed(reason string) Outcome { return Outcome{Status: StatusFailed, Reason: reason} }

// OK reports whether the outcome is success or degraded.
func (o Outcome) OK() bool { return o.Status != StatusFailed }

// Err converts a failed outcome into an error, and anything else into nil.
func (o Outcome) Err() error {
	if o.Status != StatusFailed {
		return nil
	}
	return errors.New(o.Reason)
}
