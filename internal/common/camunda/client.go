// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"credit-score-workers/internal/common/config"
	"credit-score-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client is the gateway connection shared by every credit worker.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig bounds the exponential backoff of ExecuteWithRetry.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig is used when ClientConfig.RetryConfig is nil.
var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// NewClient connects to the gateway named in the application config over plaintext.
func NewClient(cfg config.CamundaConfig) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         config.GetDuration(cfg.RequestTimeout),
		RetryConfig:            DefaultRetryConfig,
	})
}

// NewClientWithConfig creates the Zeebe client and verifies the broker answers
// a topology request within ConnectionTimeout.
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: cfg.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectionTimeout)
	defer cancel()
	if _, err := c.Brokers(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.GatewayAddress, err)
	}

	return c, nil
}

// GetClient returns the raw Zeebe client used to open job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs command until it succeeds, fails permanently or the
// retry budget is spent. Failures come back as StandardErrors.
func (c *Client) ExecuteWithRetry(
	ctx context.Context,
	command func(context.Context) (interface{}, error),
	operation string,
) (interface{}, error) {
	retry := c.config.RetryConfig
	delay := retry.BaseDelay

	for attempt := 0; ; attempt++ {
		result, err := command(ctx)
		if err == nil {
			return result, nil
		}
		if !isRetryableZeebeError(err) || attempt >= retry.MaxRetries {
			return nil, c.mapZeebeError(err, operation, attempt)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("zeebe %s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err())
		}

		delay *= 2
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}
	}
}

// Brokers returns the number of brokers in the cluster topology.
func (c *Client) Brokers(ctx context.Context) (int, error) {
	result, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return c.client.NewTopologyCommand().Send(ctx)
	}, "topology")
	if err != nil {
		return 0, err
	}
	topology, ok := result.(*pb.TopologyResponse)
	if !ok {
		return 0, fmt.Errorf("unexpected topology response %T", result)
	}
	return len(topology.GetBrokers()), nil
}

// HealthCheck asks the gateway for its topology once, bounded by ConnectionTimeout.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

var transientPhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
}

func isRetryableZeebeError(err error) bool {
	return containsAny(strings.ToLower(err.Error()), transientPhrases...)
}

func (c *Client) mapZeebeError(err error, operation string, attempt int) error {
	msg := err.Error()
	lower := strings.ToLower(msg)

	prefix := fmt.Sprintf("Zeebe operation '%s' failed", operation)
	if attempt > 0 {
		prefix += fmt.Sprintf(" after %d attempts", attempt)
	}
	detail := prefix + ": " + msg

	switch {
	case containsAny(lower, "connection refused", "connection reset", "unavailable", "unreachable"):
		return errors.NewExternalServiceError("zeebe", fmt.Errorf("%s", detail))
	case containsAny(lower, "timeout", "deadline exceeded"):
		return errors.NewTimeoutError("zeebe", fmt.Errorf("%s", detail))
	case strings.Contains(lower, "not found"):
		return errors.NewResourceNotFoundError("zeebe", detail)
	case strings.Contains(lower, "already exists"):
		return errors.NewBusinessRuleError(detail, "Resource already exists")
	case containsAny(lower, "permission denied", "unauthorized"):
		return errors.NewAuthenticationError(detail)
	default:
		return errors.NewExternalServiceError("zeebe", fmt.Errorf("%s", detail))
	}
}

func containsAny(s string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
