package sh

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/stim.go/pkg/command"
	"github.com/robotalks/stim.go/pkg/profile"
)

func parseIntent(args []string) (command.Intent, error) {
	var intent command.Intent
	if len(args) < 3 {
		return intent, fmt.Errorf("POLARITY ELECTRODE MAGNITUDE required")
	}
	pol, err := command.ParsePolarity(args[0])
	if err != nil {
		return intent, err
	}
	electrode, err := strconv.Atoi(args[1])
	if err != nil {
		return intent, fmt.Errorf("invalid ELECTRODE: %v", err)
	}
	mag, err := strconv.ParseInt(args[2], 0, 32)
	if err != nil {
		return intent, fmt.Errorf("invalid MAGNITUDE: %v", err)
	}
	return command.Intent{Electrode: electrode, Polarity: pol, Magnitude: int(mag)}, nil
}

func parseElectrodes(args []string) ([]int, error) {
	electrodes := make([]int, len(args))
	for n, arg := range args {
		e, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid ELECTRODE %q: %v", arg, err)
		}
		electrodes[n] = e
	}
	return electrodes, nil
}

func formatBytes(b []byte) string {
	strs := make([]string, len(b))
	for n, v := range b {
		strs[n] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(strs, " ")
}

var (
	// OpenCmd opens the bus.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[DEVICE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				if s.session != nil {
					c.Err(fmt.Errorf("already open on %s", s.Bus.Device))
					return
				}
				s.Bus.Device = c.Args[0]
			}
			if err := s.Open(); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd stops stimulation and closes the bus.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Close(); err != nil {
				c.Err(err)
			}
		},
	}

	// ProfileCmd shows or switches the device profile.
	ProfileCmd = ishell.Cmd{
		Name: "profile",
		Help: "[NAME|FILE]",
		Func: MustBeIdle(func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				prev := s.Stim.Profile
				s.Stim.Profile = c.Args[0]
				if err := s.LoadProfile(); err != nil {
					s.Stim.Profile = prev
					c.Err(err)
					return
				}
			}
			p := s.Profile
			c.Printf("%s (%v): setup=%d cycle=%d safe=%d\n", p.Name, p.Width, len(p.InitScript()), len(p.Cycle), len(p.Safe))
			c.Printf("built-in: %s\n", strings.Join(profile.Names(), ", "))
		}),
	}

	// SetupCmd runs the initialization script.
	SetupCmd = ishell.Cmd{
		Name: "setup",
		Help: "",
		Func: MustBeOpen(MustBeIdle(func(c *ishell.Context) {
			s := ShellFrom(c)
			script := s.Profile.InitScript()
			if err := script.Run(context.Background(), s.bus); err != nil {
				c.Err(err)
				return
			}
			c.Printf("%d words OK\n", len(script))
		})),
	}

	// MagCmd sets an electrode magnitude.
	MagCmd = ishell.Cmd{
		Name:    "mag",
		Aliases: []string{"m"},
		Help:    "POLARITY(anodic|cathodic) ELECTRODE MAGNITUDE",
		Func: MustBeOpen(func(c *ishell.Context) {
			intent, err := parseIntent(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Transfer(c, intent.Encode())
		}),
	}

	// OnCmd enables stimulation on electrodes.
	OnCmd = ishell.Cmd{
		Name: "on",
		Help: "ELECTRODE...",
		Func: MustBeOpen(func(c *ishell.Context) {
			electrodes, err := parseElectrodes(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			ShellFrom(c).Transfer(c, command.EnableElectrodes(electrodes...))
		}),
	}

	// OffCmd disables stimulation on all electrodes.
	OffCmd = ishell.Cmd{
		Name: "off",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			ShellFrom(c).Transfer(c, command.StimOff())
		}),
	}

	// CycleCmd transfers the stimulation cycle N times in the foreground.
	CycleCmd = ishell.Cmd{
		Name:    "cycle",
		Aliases: []string{"c"},
		Help:    "[N]",
		Func: MustBeOpen(MustBeIdle(func(c *ishell.Context) {
			count := 1
			if len(c.Args) > 0 {
				n, err := strconv.Atoi(c.Args[0])
				if err != nil || n < 1 {
					c.Err(fmt.Errorf("invalid N: %s", c.Args[0]))
					return
				}
				count = n
			}
			s := ShellFrom(c)
			for i := 0; i < count; i++ {
				if s.Transfer(c, s.Profile.Cycle...) != nil {
					s.Transfer(c, s.Profile.Safe...)
					return
				}
			}
		})),
	}

	// SafeCmd transfers the safe-state script of the profile.
	SafeCmd = ishell.Cmd{
		Name: "safe",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			s := ShellFrom(c)
			s.Transfer(c, s.Profile.Safe...)
		}),
	}

	// RawCmd transfers hex words and prints the bytes clocked in.
	RawCmd = ishell.Cmd{
		Name:    "raw",
		Aliases: []string{"r"},
		Help:    "HEX...",
		Func: MustBeOpen(MustBeIdle(func(c *ishell.Context) {
			s := ShellFrom(c)
			for _, arg := range c.Args {
				w, err := command.ParseWord(s.Profile.Width, arg)
				if err != nil {
					c.Err(err)
					return
				}
				rx, err := s.session.Exchange(w)
				if err != nil {
					c.Err(err)
					return
				}
				c.Printf("%s -> %s\n", formatBytes(w.Bytes()), formatBytes(rx))
			}
		})),
	}

	// EncodeCmd prints the encoding of an intent without sending it.
	EncodeCmd = ishell.Cmd{
		Name:    "encode",
		Aliases: []string{"enc"},
		Help:    "POLARITY ELECTRODE MAGNITUDE",
		Func: func(c *ishell.Context) {
			intent, err := parseIntent(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("%s: %s\n", intent, formatBytes(intent.Encode().Bytes()))
		},
	}

	// RunCmd starts the stimulation loop in the background.
	RunCmd = ishell.Cmd{
		Name: "run",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			if err := ShellFrom(c).Start(); err != nil {
				c.Err(err)
			}
		}),
	}

	// StopCmd stops the stimulation loop.
	StopCmd = ishell.Cmd{
		Name: "stop",
		Help: "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if err := s.Stop(); err != nil {
				c.Err(err)
			}
			s.PrintStats(c)
		},
	}

	// StatsCmd prints loop counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).PrintStats(c)
		},
	}
)
