// Package profile describes the register programming of a stimulator
// front end: its setup script, default magnitudes, stimulation cycle and
// safe state.
package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/robotalks/stim.go/pkg/command"
	"github.com/robotalks/stim.go/pkg/sequence"
)

// Profile is read once at startup and not modified afterwards.
type Profile struct {
	Name       string
	Width      command.Width
	Setup      sequence.Script
	Magnitudes []command.Intent
	Cycle      sequence.Script
	Safe       sequence.Script
}

// InitScript is Setup followed by the encoded magnitude writes.
func (p *Profile) InitScript() sequence.Script {
	mags := make(sequence.Script, len(p.Magnitudes))
	for n, intent := range p.Magnitudes {
		mags[n] = intent.Encode()
	}
	return sequence.Concat(p.Setup, mags)
}

// Validate checks the scripts are consistent with the profile width.
func (p *Profile) Validate() error {
	if !p.Width.IsValid() {
		return command.ErrInvalidWidth
	}
	if len(p.Cycle) == 0 {
		return fmt.Errorf("profile %s: empty cycle", p.Name)
	}
	if len(p.Magnitudes) > 0 && p.Width != command.Width32 {
		return fmt.Errorf("profile %s: electrode magnitudes require %v words", p.Name, command.Width32)
	}
	for _, s := range []struct {
		name   string
		script sequence.Script
	}{{"setup", p.Setup}, {"cycle", p.Cycle}, {"safe", p.Safe}} {
		for n, w := range s.script {
			if w.Width() != p.Width {
				return fmt.Errorf("profile %s: %s[%d] %s is %v, want %v", p.Name, s.name, n, w, w.Width(), p.Width)
			}
		}
	}
	return nil
}

var builtins = map[string]func() *Profile{
	"rhs32": RHS32,
	"dac24": DAC24,
}

// Names lists built-in profile names.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a built-in profile by name, or loads a YAML file when
// nameOrPath is not a built-in name.
func Lookup(nameOrPath string) (*Profile, error) {
	if fn, ok := builtins[nameOrPath]; ok {
		return fn(), nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, fmt.Errorf("unknown profile %q (built-in: %s)", nameOrPath, strings.Join(Names(), ", "))
	}
	return Load(nameOrPath)
}
