package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/bus"
	"github.com/robotalks/stim.go/pkg/framework"
	"github.com/robotalks/stim.go/pkg/stim"
	"github.com/robotalks/stim.go/pkg/telemetry"
)

func init() {
	bus.SetupFlags()
	stim.SetupFlags()
	telemetry.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	stimConf, busConf, telConf := stim.Default(), bus.Default(), telemetry.Default()
	p, err := stimConf.LoadProfile()
	if err != nil {
		glog.Exitf("profile: %v", err)
	}

	session, err := busConf.Open()
	if err != nil {
		glog.Exitf("bus: %v", err)
	}
	session.Width = p.Width
	glog.Infof("bus %s:%s open, profile %s (%v)", busConf.Driver, busConf.Device, p.Name, p.Width)

	runner := framework.NewRunner().HandleSignals()
	if err := p.InitScript().Run(runner.Context(), session); err != nil {
		session.Close()
		glog.Exitf("init: %v", err)
	}
	glog.Infof("device initialized")

	loop, err := stimConf.NewLoop(session, p)
	if err != nil {
		session.Close()
		glog.Exitf("stim: %v", err)
	}
	runner.Go(loop)

	var reporter *telemetry.Reporter
	if telConf.Enabled() {
		var q *telemetry.Queue
		if reporter, q, err = telConf.NewReporter(loop, p.Name); err != nil {
			glog.Warningf("telemetry disabled: %v", err)
		} else {
			defer q.Close()
			runner.Go(reporter)
		}
	}

	err = runner.Wait()
	if reporter != nil {
		if rerr := reporter.Report(); rerr != nil {
			glog.Warningf("telemetry: %v", rerr)
		}
	}
	if cerr := session.Close(); cerr != nil {
		glog.Warningf("bus close: %v", cerr)
	}
	if err != nil {
		glog.Exitf("stimulation: %v", err)
	}
	glog.Info("stopped")
}
