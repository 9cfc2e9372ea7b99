package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeIntake runs the Kafka alert intake consumer.
	ServiceModeIntake ServiceMode = "intake"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeIntake}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if strings.TrimSpace(servicesStr) == "" {
		return services, errors.New("at least one service must be specified")
	}

	for _, part := range strings.Split(servicesStr, ",") {
		serviceName := strings.ToLower(strings.TrimSpace(part))
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeIntake:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: http, intake)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// KafkaConfig configures the producer intake consumer and the lifecycle event stream.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// IntakeTopic carries {deviceId,title,message,severity} alert requests.
	IntakeTopic string `env:"INTAKE_TOPIC" envDefault:"fleet-alerts.intake"`
	GroupID     string `env:"GROUP_ID"     envDefault:"fleet-alerts-intake"`

	// EventsTopic receives lifecycle events. Empty disables the Kafka event stream.
	EventsTopic string `env:"EVENTS_TOPIC"`

	RetryBackoff    time.Duration `env:"RETRY_BACKOFF"     envDefault:"500ms"`
	MaxRetryBackoff time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"30s"`
}

// Sanitize trims names, drops empty brokers and orders the backoff bounds.
func (c *KafkaConfig) Sanitize() {
	brokers := c.Brokers[:0]
	for _, b := range c.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Brokers = brokers
	c.IntakeTopic = strings.TrimSpace(c.IntakeTopic)
	c.GroupID = strings.TrimSpace(c.GroupID)
	c.EventsTopic = strings.TrimSpace(c.EventsTopic)
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
	if c.MaxRetryBackoff < c.RetryBackoff {
		c.MaxRetryBackoff = c.RetryBackoff
	}
}

// EventsEnabled reports whether lifecycle events should be written to Kafka.
func (c KafkaConfig) EventsEnabled() bool {
	return c.EventsTopic != "" && len(c.Brokers) > 0
}
