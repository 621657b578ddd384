package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// isThrottle reports whether err is an API throttling response.
func isThrottle(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "Throttling", "ThrottlingException", "ThrottledException",
		"RequestThrottled", "RequestThrottledException", "RequestLimitExceeded",
		"TooManyRequestsException", "SlowDown":
		return true
	}
	return false
}

// IsNotFound reports whether err names a missing EC2 resource.
func IsNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "InvalidInstanceID.NotFound", "InvalidInstanceID.Malformed", "InvalidVpcID.NotFound", "InvalidSubnetID.NotFound":
			return true
		}
	}
	return false
}
