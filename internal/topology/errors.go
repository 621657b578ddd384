package topology

import "fmt"

// InvalidIntentError reports a malformed placement request. It is fatal:
// nothing is generated for an intent that fails validation.
type InvalidIntentError struct {
	Role   Role
	Reason string
}

func (e *InvalidIntentError) Error() string {
	return fmt.Sprintf("invalid intent for role %s: %s", e.Role, e.Reason)
}
