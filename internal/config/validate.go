package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// stackNameRegex matches names usable in DNS labels, resource names and tags.
var stackNameRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

func init() {
	_ = validate.RegisterValidation("stackname", func(fl validator.FieldLevel) bool {
		return stackNameRegex.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("fragments", func(fl validator.FieldLevel) bool {
		loc := fl.Field().String()
		if rest, ok := strings.CutPrefix(loc, "s3://"); ok {
			bucket, _, _ := strings.Cut(rest, "/")
			return bucket != ""
		}
		return true
	})
}

// Validate checks the configuration's structure. Role placement rules are
// left to the topology resolver.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return err
	}

	if c.Provider == "" || c.Provider == ProviderAWS {
		if err := c.AWS.validate(); err != nil {
			return fmt.Errorf("aws: %w", err)
		}
	}
	return nil
}

func (a *AWSConfig) validate() error {
	switch {
	case a.VPCID == "" && a.BastionID == "":
		return fmt.Errorf("one of vpc-id or bastion-id is required")
	case a.VPCID != "" && a.BastionID != "":
		return fmt.Errorf("vpc-id and bastion-id are mutually exclusive")
	}

	if len(a.Subnets) > 0 && len(a.Subnets) != len(a.Zones) {
		return fmt.Errorf("vpc-subnets lists %d subnets for %d zones", len(a.Subnets), len(a.Zones))
	}
	if len(a.PrivateSubnets) > 0 && len(a.PrivateSubnets) != len(a.Zones) {
		return fmt.Errorf("vpc-private-subnets lists %d subnets for %d zones", len(a.PrivateSubnets), len(a.Zones))
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "stackname":
		return fmt.Errorf("%s %q must be lowercase alphanumeric characters or hyphens", field, fe.Value())
	case "oneof":
		return fmt.Errorf("%s %q must be one of [%s]", field, fe.Value(), fe.Param())
	case "fragments":
		return fmt.Errorf("%s %q is missing a bucket name", field, fe.Value())
	default:
		return fmt.Errorf("%s failed %q validation (value %v)", field, fe.Tag(), fe.Value())
	}
}
