package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/telemetry"
)

var (
	mqttURL    = "mqtt://localhost:1883/stim/"
	listenAddr string
)

func init() {
	if val := os.Getenv("STIM_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&listenAddr, "listen", listenAddr, "Serve status payloads over websocket at /status on this address.")
}

func main() {
	flag.Parse()

	q, err := telemetry.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exitln(err)
	}

	stream := telemetry.NewStream()
	if listenAddr != "" {
		http.Handle("/status", stream.Handler())
		go func() {
			glog.Exitln(http.ListenAndServe(listenAddr, nil))
		}()
		glog.Infof("streaming status on ws://%s/status", listenAddr)
	}

	q.Sub("#", func(topic string, payload []byte) {
		if !telemetry.MatchTopic(topic, "+/status") {
			glog.V(1).Infof("%s: %d bytes", topic, len(payload))
			return
		}
		s, err := telemetry.DecodeStatus(payload)
		if err != nil {
			glog.Warningf("%s: bad status: %v", topic, err)
			return
		}
		stream.Broadcast(payload)
		glog.Infof("%s: [%s] %s/%s cycles=%d transfers=%d failures=%d at %s",
			s.DeviceId, s.Profile, s.State, s.Policy, s.Cycles, s.Transfers, s.Failures,
			time.Unix(0, s.Timestamp).Format(time.RFC3339))
		if s.LastError != "" {
			glog.Warningf("%s: last error: %s", s.DeviceId, s.LastError)
		}
	})
	if err := q.Connect(); err != nil {
		glog.Exitln(err)
	}
	<-(chan struct{})(nil)
}
