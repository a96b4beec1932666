package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/stim.go/pkg/command"
	"github.com/robotalks/stim.go/pkg/sequence"
)

type intentDoc struct {
	Electrode int    `yaml:"electrode"`
	Polarity  string `yaml:"polarity"`
	Magnitude int    `yaml:"magnitude"`
}

type profileDoc struct {
	Name       string      `yaml:"name"`
	Width      int         `yaml:"width"`
	Setup      []string    `yaml:"setup"`
	Magnitudes []intentDoc `yaml:"magnitudes"`
	Cycle      []string    `yaml:"cycle"`
	Safe       []string    `yaml:"safe"`
}

// Load reads a profile from a YAML file.
//
//	name: custom
//	width: 4
//	setup: ["0xe0ff0000", "0x80200000"]
//	magnitudes:
//	  - {electrode: 0, polarity: anodic, magnitude: 200}
//	cycle: ["0xa02a0001", "0xa02a0000"]
//	safe: ["0xa02a0000"]
//
// Words wider than the profile width are rejected rather than masked.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	p := &Profile{Name: doc.Name, Width: command.Width(doc.Width)}
	if p.Width == 0 {
		p.Width = command.Width32
	}
	if !p.Width.IsValid() {
		return nil, command.ErrInvalidWidth
	}
	var err error
	if p.Setup, err = parseScript(p.Width, "setup", doc.Setup); err != nil {
		return nil, err
	}
	if p.Cycle, err = parseScript(p.Width, "cycle", doc.Cycle); err != nil {
		return nil, err
	}
	if p.Safe, err = parseScript(p.Width, "safe", doc.Safe); err != nil {
		return nil, err
	}
	for n, m := range doc.Magnitudes {
		pol, err := command.ParsePolarity(m.Polarity)
		if err != nil {
			return nil, fmt.Errorf("magnitudes[%d]: %v", n, err)
		}
		p.Magnitudes = append(p.Magnitudes, command.Intent{
			Electrode: m.Electrode,
			Polarity:  pol,
			Magnitude: m.Magnitude,
		})
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseScript(width command.Width, name string, words []string) (sequence.Script, error) {
	s := make(sequence.Script, 0, len(words))
	for n, str := range words {
		w, err := command.ParseWord(width, str)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %v", name, n, err)
		}
		s = append(s, w)
	}
	return s, nil
}
