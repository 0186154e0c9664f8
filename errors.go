package machan

import "errors"

// raised errors abort evaluation and can be intercepted by try/catch.
var (
	ErrZero        = errors.New("Ente ponnu machane zero vechu ara divide cheyane!!")
	ErrAssign      = errors.New("invalid left hand side in assignment")
	ErrDepth       = errors.New("maximum call depth exceeded")
	ErrInterrupted = errors.New("evaluation interrupted")
	ErrNode        = errors.New("unsupported node")
)

// reported errors are sent to the host and the faulty expression yields Null.
var (
	ErrType     = errors.New("incompatible type")
	ErrIndex    = errors.New("index out of range")
	ErrProperty = errors.New("property does not exist")
	ErrCall     = errors.New("value is not callable")
	ErrUnknown  = errors.New("native function not found")
	ErrArgument = errors.New("invalid arguments")
	ErrLoop     = errors.New("break or continue outside of a loop")
	ErrIO       = errors.New("io error")
)

// Recoverable tells whether err belongs to the reported class of errors.
func Recoverable(err error) bool {
	for _, e := range []error{ErrType, ErrIndex, ErrProperty, ErrCall, ErrUnknown, ErrArgument, ErrLoop, ErrIO} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
