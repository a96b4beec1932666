package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"github.com/robotalks/stim.go/pkg/bus"
	"github.com/robotalks/stim.go/pkg/command"
	"github.com/robotalks/stim.go/pkg/profile"
	"github.com/robotalks/stim.go/pkg/stim"
)

var (
	// ErrNotOpen indicates no bus session is open.
	ErrNotOpen = errors.New("bus not open")
	// ErrRunning indicates the command is refused while the loop runs.
	ErrRunning = errors.New("stimulation running, stop it first")
)

// Shell provides an ishell backed bench console.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell   *ishell.Shell
	Bus     *bus.Config
	Stim    *stim.Config
	Profile *profile.Profile

	session *bus.Session
	bus     bus.Transferer
	run     *background
}

// background is a stimulation loop running in its own goroutine.
type background struct {
	loop   *stim.Loop
	cancel func()
	done   chan error
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&ProfileCmd,
		&SetupCmd,
		&MagCmd,
		&OnCmd,
		&OffCmd,
		&CycleCmd,
		&SafeCmd,
		&RawCmd,
		&EncodeCmd,
		&RunCmd,
		&StopCmd,
		&StatsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(busConf *bus.Config, stimConf *stim.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
		Bus:   busConf,
		Stim:  stimConf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requiring an open bus.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).session == nil {
			c.Err(ErrNotOpen)
			return
		}
		fn(c)
	}
}

// MustBeIdle wraps command func refused while the loop is running.
func MustBeIdle(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Running() {
			c.Err(ErrRunning)
			return
		}
		fn(c)
	}
}

// LoadProfile resolves the configured profile.
func (s *Shell) LoadProfile() error {
	p, err := s.Stim.LoadProfile()
	if err != nil {
		return err
	}
	s.Profile = p
	if s.session != nil {
		s.session.Width = p.Width
	}
	return nil
}

// Open opens the bus.
func (s *Shell) Open() error {
	if s.session != nil {
		return nil
	}
	session, err := s.Bus.Open()
	if err != nil {
		return err
	}
	session.Width = s.Profile.Width
	s.session, s.bus = session, bus.Locked(session)
	s.Shell.SetPrompt(fmt.Sprintf("%s [%s] > ", s.Bus.Device, s.Profile.Name))
	return nil
}

// Close stops stimulation and closes the bus.
func (s *Shell) Close() error {
	if s.session == nil {
		return nil
	}
	stopErr := s.Stop()
	err := s.session.Close()
	s.session, s.bus = nil, nil
	s.Shell.SetPrompt(closedPrompt)
	if stopErr != nil {
		return stopErr
	}
	return err
}

// Transfer sends words in order, stopping at the first failure, and
// prints what was clocked in.
func (s *Shell) Transfer(c *ishell.Context, words ...command.Word) error {
	for _, w := range words {
		if err := s.bus.Transfer(w); err != nil {
			c.Err(err)
			return err
		}
		c.Printf("%s OK\n", w)
	}
	return nil
}

// Running reports whether the loop runs in the background.
func (s *Shell) Running() bool {
	if s.run == nil {
		return false
	}
	select {
	case err := <-s.run.done:
		glog.Infof("stimulation ended: %v", err)
		s.run.done <- err
		return false
	default:
		return true
	}
}

// Start runs the stimulation loop in the background.
func (s *Shell) Start() error {
	if s.Running() {
		return ErrRunning
	}
	l, err := s.Stim.NewLoop(s.bus, s.Profile)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	run := &background{loop: l, cancel: cancel, done: make(chan error, 1)}
	go func() { run.done <- l.Run(ctx) }()
	s.run = run
	return nil
}

// Stop stops the background loop and waits for the safe state.
func (s *Shell) Stop() error {
	if s.run == nil {
		return nil
	}
	s.run.cancel()
	err := <-s.run.done
	s.run.done <- err
	if err == context.Canceled {
		return nil
	}
	return err
}

// PrintStats prints the stats of the last started loop.
func (s *Shell) PrintStats(c *ishell.Context) {
	if s.run == nil {
		c.Println("not started")
		return
	}
	stats := s.run.loop.Stats()
	if s.OutputJSON {
		out, err := json.Marshal(map[string]interface{}{
			"state":      stats.State.String(),
			"policy":     stats.Policy.String(),
			"cycles":     stats.Cycles,
			"transfers":  stats.Transfers,
			"failures":   stats.Failures,
			"last_error": stats.LastError,
		})
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Printf("%s (%s): cycles=%d transfers=%d failures=%d\n",
		stats.State, stats.Policy, stats.Cycles, stats.Transfers, stats.Failures)
	if stats.LastError != "" {
		c.Printf("last error: %s\n", stats.LastError)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) error {
	if err := s.LoadProfile(); err != nil {
		return err
	}
	defer s.Close()
	if len(args) > 0 {
		return s.Shell.Process(args...)
	}
	if s.Interactive {
		s.Shell.Run()
		return nil
	}
	return errors.New("command expected")
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	if err := New(bus.NewConfig(), stim.NewConfig()).Run(flag.Args()...); err != nil {
		glog.Exitln(err)
	}
}
