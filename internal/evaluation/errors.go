package evaluation

import "fmt"

// Input sides, used to attribute malformed-patch failures.
const (
	SideAgent     = "agent"
	SideReference = "reference"
)

// InputError wraps a parse failure with the side (agent or reference)
// that supplied the bad diff text. It is the only error kind Evaluate
// returns: the engine itself is pure computation with no other failure
// modes.
type InputError struct {
	Side string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s diff: %v", e.Side, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
