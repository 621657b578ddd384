package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errStackRequired    = errors.New("stack name is required")
	errStackInvalid     = errors.New("stack name must be lowercase alphanumeric characters or hyphens, starting with a letter and ending with alphanumeric")
	errCountInvalid     = errors.New("instance count must be a positive number")
	errIDRequired       = errors.New("an id is required")
	errVPCIDInvalid     = errors.New("VPC ids start with vpc-")
	errBastionIDInvalid = errors.New("instance ids start with i-")
)
