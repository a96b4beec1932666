package telemetry

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID scopes the machine ID so it cannot be correlated across apps.
const appID = "stim.go"

// DeviceID returns a stable ID for this host, falling back to fallback
// when the machine ID is unavailable.
func DeviceID(fallback string) string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable, using %q: %v", fallback, err)
		return fallback
	}
	return id[:16]
}
