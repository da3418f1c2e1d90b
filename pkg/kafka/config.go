package kafka

import (
	"strings"
	"time"
)

// Config holds Kafka producer connection parameters.
type Config struct {
	ClientID string
	Brokers  []string

	// BatchTimeout bounds how long a writer waits to fill a batch.
	BatchTimeout time.Duration

	// TLS enables TLS for broker connections.
	TLS bool
}

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
