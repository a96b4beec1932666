package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/stim"
)

// ErrPublishTimeout indicates the broker did not acknowledge in time.
var ErrPublishTimeout = errors.New("publish timeout")

// DefaultInterval is the default reporting interval.
const DefaultInterval = 5 * time.Second

// Publisher publishes a payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// StatsSource provides loop counters.
type StatsSource interface {
	Stats() stim.Stats
}

// Reporter periodically publishes the loop status. It only reads
// counters and never touches the bus.
type Reporter struct {
	Publisher Publisher
	Source    StatsSource
	DeviceID  string
	Profile   string
	Interval  time.Duration
}

// StatusTopic returns the topic status is published on.
func StatusTopic(deviceID string) string {
	return deviceID + "/status"
}

// Name implements framework.Named.
func (r *Reporter) Name() string {
	return "telemetry"
}

// Run implements framework.Runnable.
func (r *Reporter) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Report(); err != nil {
				glog.Warningf("telemetry: %v", err)
			}
		}
	}
}

// Report publishes the current status once.
func (r *Reporter) Report() error {
	s := r.Source.Stats()
	msg := &Status{
		DeviceId:  r.DeviceID,
		Profile:   r.Profile,
		State:     s.State.String(),
		Policy:    s.Policy.String(),
		Cycles:    s.Cycles,
		Transfers: s.Transfers,
		Failures:  s.Failures,
		LastError: s.LastError,
		Timestamp: time.Now().UnixNano(),
	}
	payload, err := msg.Encode()
	if err != nil {
		return err
	}
	if glog.V(3) {
		glog.Infof("status %s", msg)
	}
	return r.Publisher.Publish(StatusTopic(r.DeviceID), payload)
}
