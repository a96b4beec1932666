package stim

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/robotalks/stim.go/pkg/bus"
	"github.com/robotalks/stim.go/pkg/profile"
)

// Config defines the stimulation runtime options.
type Config struct {
	// Profile is a built-in profile name or a YAML file.
	Profile string
	// Policy is strict or best-effort.
	Policy string
	// Rate is a target cycle rate in Hz. Zero runs at bus speed.
	Rate float64
}

var defaultConfig = Config{
	Profile: "rhs32",
	Policy:  PolicyStrict.String(),
}

func init() {
	if val := os.Getenv("STIM_PROFILE"); val != "" {
		defaultConfig.Profile = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Profile, "profile", defaultConfig.Profile, "Device profile: built-in name or YAML file.")
	flag.StringVar(&defaultConfig.Policy, "policy", defaultConfig.Policy, "Transfer failure policy: strict or best-effort.")
	flag.Float64Var(&defaultConfig.Rate, "rate", defaultConfig.Rate, "Target cycle rate in Hz, 0 for bus-bound.")
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

// LoadProfile resolves the configured profile.
func (c *Config) LoadProfile() (*profile.Profile, error) {
	p, err := profile.Lookup(c.Profile)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewLoop creates a Loop running the cycle of p on t.
func (c *Config) NewLoop(t bus.Transferer, p *profile.Profile) (*Loop, error) {
	policy, err := ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	if c.Rate < 0 {
		return nil, fmt.Errorf("invalid rate %v", c.Rate)
	}
	l := &Loop{
		Bus:    t,
		Cycle:  p.Cycle,
		Safe:   p.Safe,
		Policy: policy,
	}
	if c.Rate > 0 {
		l.Interval = time.Duration(float64(time.Second) / c.Rate)
	}
	return l, nil
}
