// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobportal-workers/internal/common/config"
	"jobportal-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client is the Zeebe gateway connection shared by all job workers.
type Client struct {
	client zbc.Client
	opts   ClientOptions
}

type ClientOptions struct {
	GatewayAddress string
	Plaintext      bool
	// DialTimeout bounds the topology check on connect and each health check.
	DialTimeout time.Duration
	Backoff     Backoff
}

// Backoff is an exponential schedule capped at Max.
type Backoff struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// Delay returns the wait before retry number attempt (0-based).
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base << uint(attempt)
	if d <= 0 || d > b.Max {
		return b.Max
	}
	return d
}

var defaultBackoff = Backoff{Attempts: 3, Base: time.Second, Max: 10 * time.Second}

// OptionsFromConfig derives client options from the camunda config section.
func OptionsFromConfig(cfg config.CamundaConfig) ClientOptions {
	dial := config.GetDuration(cfg.RequestTimeout)
	if dial <= 0 {
		dial = 10 * time.Second
	}
	return ClientOptions{
		GatewayAddress: cfg.BrokerAddress,
		Plaintext:      true,
		DialTimeout:    dial,
		Backoff:        defaultBackoff,
	}
}

// Connect dials the gateway and waits for the broker topology.
func Connect(opts ClientOptions) (*Client, error) {
	if opts.Backoff.Attempts <= 0 {
		opts.Backoff = defaultBackoff
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         opts.GatewayAddress,
		UsePlaintextConnection: opts.Plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}
	c := &Client{client: zeebeClient, opts: opts}

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	err = c.Retry(ctx, "topology", func(ctx context.Context) error {
		_, err := zeebeClient.NewTopologyCommand().Send(ctx)
		return err
	})
	if err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("zeebe gateway %s unreachable: %w", opts.GatewayAddress, err)
	}
	return c, nil
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Retry runs op until it succeeds, fails permanently or the backoff is
// exhausted. The returned error is mapped onto the application taxonomy.
func (c *Client) Retry(ctx context.Context, operation string, op func(context.Context) error) error {
	attempts := c.opts.Backoff.Attempts
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !isRetryableZeebeError(err) || attempt+1 >= attempts {
			return mapZeebeError(err, operation, attempt+1)
		}

		select {
		case <-time.After(c.opts.Backoff.Delay(attempt)):
		case <-ctx.Done():
			return errors.NewTimeoutError("zeebe "+operation, ctx.Err())
		}
	}
}

// HealthCheck asks the gateway for its topology once.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return mapZeebeError(err, "health check", 1)
	}
	return nil
}

var retryableCodes = map[codes.Code]bool{
	codes.Unavailable:       true,
	codes.DeadlineExceeded:  true,
	codes.ResourceExhausted: true,
	codes.Aborted:           true,
}

// Transport failures that reach us without a gRPC status.
var retryablePhrases = []string{
	"connection refused",
	"connection reset",
	"deadline exceeded",
	"timeout",
	"broken pipe",
}

func isRetryableZeebeError(err error) bool {
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return retryableCodes[s.Code()]
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func mapZeebeError(err error, operation string, attempts int) error {
	wrapped := fmt.Errorf("zeebe %s failed after %d attempt(s): %w", operation, attempts, err)

	code := codes.Unknown
	if s, ok := status.FromError(err); ok {
		code = s.Code()
	}
	msg := strings.ToLower(err.Error())

	switch {
	case code == codes.DeadlineExceeded || strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return errors.NewTimeoutError("zeebe "+operation, wrapped)
	case code == codes.Unauthenticated || code == codes.PermissionDenied:
		return errors.NewSessionExpiredError(wrapped.Error())
	case code == codes.NotFound || strings.Contains(msg, "not found"):
		return errors.NewUnexpectedResponseError(404, wrapped.Error())
	default:
		return errors.NewNetworkError("zeebe "+operation, wrapped)
	}
}
