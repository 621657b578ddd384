package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/go-logr/logr"

	appconfig "github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/util/retry"
)

// EC2API is the subset of the EC2 client used for discovery.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeAvailabilityZones(ctx context.Context, params *ec2.DescribeAvailabilityZonesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error)
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
}

// Options configures NewClient. All fields are optional.
type Options struct {
	// Profile selects a shared AWS CLI profile.
	Profile string
	Region  string
}

// Client performs EC2 lookups in one region.
type Client struct {
	ec2      EC2API
	region   string
	timeouts *appconfig.Timeouts
	log      logr.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom retry limits for the client.
func WithTimeouts(t *appconfig.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithLogger sets the logger used for retry notices.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient loads the default AWS configuration chain and creates an EC2
// client for the resolved region.
func NewClient(ctx context.Context, opts Options, clientOpts ...ClientOption) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, errors.New("no AWS region configured: set aws.region or the profile's region")
	}

	return NewClientWithAPI(ec2.NewFromConfig(cfg), cfg.Region, clientOpts...), nil
}

// NewClientWithAPI wraps an existing EC2 implementation (useful for testing).
func NewClientWithAPI(api EC2API, region string, opts ...ClientOption) *Client {
	c := &Client{
		ec2:      api,
		region:   region,
		timeouts: appconfig.LoadTimeouts(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region returns the region the client talks to.
func (c *Client) Region() string {
	return c.region
}

// do runs a lookup, retrying throttled requests only.
func (c *Client) do(ctx context.Context, op string, fn func() error) error {
	err := retry.Do(ctx, fn,
		retry.WithAttempts(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithRetryable(isThrottle),
		retry.WithNotify(func(attempt int, err error, wait time.Duration) {
			c.log.V(1).Info("retrying ec2 lookup", "op", op, "attempt", attempt, "wait", wait, "error", err.Error())
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
