package telemetry

import (
	"flag"
	"os"
	"time"
)

// Config defines telemetry options.
type Config struct {
	// MQTTBrokerURL enables telemetry when not empty.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	DeviceID      string
	Interval      time.Duration
}

var defaultConfig = Config{
	Interval: DefaultInterval,
}

func init() {
	if val := os.Getenv("STIM_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for status telemetry, empty to disable.")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID in telemetry topics, defaults to the machine ID.")
	flag.DurationVar(&defaultConfig.Interval, "report-interval", defaultConfig.Interval, "Status reporting interval.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled reports whether a broker is configured.
func (c *Config) Enabled() bool {
	return c.MQTTBrokerURL != ""
}

// NewReporter connects to the broker and creates a Reporter for src.
// The returned Queue must be closed by the caller.
func (c *Config) NewReporter(src StatsSource, profile string) (*Reporter, *Queue, error) {
	q, err := NewQueueFromURL(c.MQTTBrokerURL)
	if err != nil {
		return nil, nil, err
	}
	if err := q.Connect(); err != nil {
		return nil, nil, err
	}
	id := c.DeviceID
	if id == "" {
		id = DeviceID("stim")
	}
	return &Reporter{
		Publisher: q,
		Source:    src,
		DeviceID:  id,
		Profile:   profile,
		Interval:  c.Interval,
	}, q, nil
}
