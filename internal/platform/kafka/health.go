// Package kafka holds cluster-level helpers shared by the producer and its callers.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// BrokerLister reports the brokers currently in the cluster metadata.
type BrokerLister interface {
	Brokers(ctx context.Context) ([]string, error)
}

// DefaultCheckTimeout bounds one readiness probe.
const DefaultCheckTimeout = 3 * time.Second

var errNoBrokers = errors.New("no kafka brokers in cluster metadata")

// HealthCheck returns a readiness check that passes while at least one broker
// is known to the client.
func HealthCheck(lister BrokerLister, timeout time.Duration) func(context.Context) error {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		brokers, err := lister.Brokers(ctx)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		if len(brokers) == 0 {
			return errNoBrokers
		}
		return nil
	}
}
