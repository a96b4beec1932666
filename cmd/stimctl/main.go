package main

import (
	"github.com/robotalks/stim.go/pkg/bus"
	"github.com/robotalks/stim.go/pkg/cli/sh"
	"github.com/robotalks/stim.go/pkg/stim"
)

func init() {
	bus.SetupFlags()
	stim.SetupFlags()
}

func main() {
	sh.Main()
}
