package hcloud

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/clusterform/internal/config"
	"github.com/imamik/clusterform/internal/util/retry"
)

// Client is a read-only view of one Hetzner Cloud project.
type Client struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
	log      logr.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeouts sets custom retry limits for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger used for retry notices.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client for the project the token belongs to.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		client:   hcloud.NewClient(hcloud.WithToken(token), hcloud.WithApplication("clusterform", "")),
		timeouts: config.LoadTimeouts(),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) locations(ctx context.Context) ([]*hcloud.Location, error) {
	var locations []*hcloud.Location
	err := c.do(ctx, "list locations", func() error {
		var err error
		locations, err = c.client.Location.All(ctx)
		return err
	})
	return locations, err
}

// ServerTypes returns the names of all server types.
func (c *Client) ServerTypes(ctx context.Context) ([]string, error) {
	var types []*hcloud.ServerType
	err := c.do(ctx, "list server types", func() error {
		var err error
		types, err = c.client.ServerType.All(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(types))
	for _, st := range types {
		names = append(names, st.Name)
	}
	return names, nil
}

// serverByName returns the server called name, or nil if there is none.
func (c *Client) serverByName(ctx context.Context, name string) (*hcloud.Server, error) {
	var server *hcloud.Server
	err := c.do(ctx, "get server "+name, func() error {
		var err error
		server, _, err = c.client.Server.GetByName(ctx, name)
		return err
	})
	return server, err
}

// do runs a lookup, retrying only what isRetryable accepts.
func (c *Client) do(ctx context.Context, op string, fn func() error) error {
	err := retry.Do(ctx, fn,
		retry.WithAttempts(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithRetryable(isRetryable),
		retry.WithNotify(func(attempt int, err error, wait time.Duration) {
			c.log.V(1).Info("retrying hcloud lookup", "op", op, "attempt", attempt, "wait", wait, "error", err.Error())
		}),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
