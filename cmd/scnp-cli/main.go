package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"scnp"
	"scnp/internal/config"
)

var version = "0.3.0"

// app carries what the commands need. Tests replace openBus and isTerminal.
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	openBus    func() (scnp.Bus, error)
	isTerminal func() bool
}

func openUSB() (scnp.Bus, error) {
	return scnp.OpenUSB()
}

func (a *app) sessionOptions() []scnp.SessionOption {
	if a.cfg.DryRun {
		a.logger.Debugf("dry-run mode, meter value 0x%08x", a.cfg.DryRunValue)
		return []scnp.SessionOption{scnp.WithDryRun(a.cfg.DryRunValue)}
	}
	return nil
}

// run performs fn on the single attached device.
func (a *app) run(fn func(*scnp.Session) error) error {
	bus, err := a.openBus()
	if err != nil {
		return err
	}
	return scnp.Run(bus, a.logger, fn, a.sessionOptions()...)
}

func exactArgs(c *cli.Context, n int) error {
	if c.Args().Len() != n {
		return fmt.Errorf("%s expects %d argument(s), got %d: %w", c.Command.Name, n, c.Args().Len(), ErrArgumentSyntax)
	}
	return nil
}

func (a *app) audioRouting(c *cli.Context) error {
	if err := exactArgs(c, 1); err != nil {
		return err
	}
	idx, err := parseSourceIndex(c.Args().Get(0))
	if err != nil {
		return err
	}
	return a.run(func(s *scnp.Session) error { return s.AudioRouting(idx) })
}

func (a *app) duckerOff(c *cli.Context) error {
	if err := exactArgs(c, 0); err != nil {
		return err
	}
	return a.run(func(s *scnp.Session) error { return s.DuckerOff() })
}

func (a *app) duckerOn(c *cli.Context) error {
	if err := exactArgs(c, 2); err != nil {
		return err
	}
	inputs, err := parseInputs(c.Args().Get(0))
	if err != nil {
		return err
	}
	release, err := parseRelease(c.Args().Get(1))
	if err != nil {
		return err
	}
	return a.run(func(s *scnp.Session) error { return s.DuckerOn(inputs, release) })
}

func (a *app) duckerRange(c *cli.Context) error {
	if err := exactArgs(c, 1); err != nil {
		return err
	}
	v, err := parseLevel(c.Args().Get(0), scnp.RangeFamily)
	if err != nil {
		return err
	}
	return a.run(func(s *scnp.Session) error { return s.DuckerRange(v) })
}

func (a *app) duckerThreshold(c *cli.Context) error {
	if err := exactArgs(c, 1); err != nil {
		return err
	}
	v, err := parseLevel(c.Args().Get(0), scnp.ThresholdFamily)
	if err != nil {
		return err
	}
	return a.run(func(s *scnp.Session) error { return s.DuckerThreshold(v) })
}

func (a *app) meter(c *cli.Context) error {
	if err := exactArgs(c, 0); err != nil {
		return err
	}
	if !a.isTerminal() {
		return scnp.ErrNotTerminal
	}

	ctx, stop := signal.NotifyContext(c.Context, terminationSignals()...)
	defer stop()

	return a.run(func(s *scnp.Session) error {
		m := scnp.NewMeter(s, c.App.Writer, s.Profile().Name)
		_, err := m.Run(ctx)
		return err
	})
}

func (a *app) list(c *cli.Context) error {
	bus, err := a.openBus()
	if err != nil {
		return err
	}
	defer bus.Close()

	matches, err := scnp.SupportedDevices(bus, a.logger)
	if err != nil {
		return err
	}
	for _, ref := range matches {
		d := ref.Descriptor()
		p, _ := scnp.LookupProfile(d.ProductID)
		fmt.Fprintln(c.App.Writer, d.Listing(p.Name))
	}
	return nil
}

func dumpTables(c *cli.Context) error {
	return scnp.WriteTables(c.App.Writer)
}

func sourcesHelp() string {
	text := ""
	for _, p := range scnp.Profiles() {
		text += fmt.Sprintf("   %s %s\n", p.Name, p.SourceDescr)
		for i, src := range p.Sources {
			text += fmt.Sprintf("     %d  %s\n", i, src)
		}
	}
	return text + "   Note that on the NOTEPAD-12FX 4-channel audio capture device,\n" +
		"   capture device channels 1+2 are always fed from mixer CH 1+2."
}

func newApp(a *app, out io.Writer) *cli.App {
	return &cli.App{
		Name:    "scnp-cli",
		Usage:   "USB control commands for the Soundcraft Notepad series of mixers",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				Value:   false,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				a.logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:        "audio-routing",
				Usage:       "Set the USB audio source of the attached device",
				ArgsUsage:   "<NUM>",
				Description: "There must be exactly one supported device connected.\n" + sourcesHelp(),
				Action:      a.audioRouting,
			},
			{
				Name:   "ducker-off",
				Usage:  "Turn the ducker off",
				Action: a.duckerOff,
			},
			{
				Name:      "ducker-on",
				Usage:     "Turn the ducker on",
				ArgsUsage: "<INPUTS> <RELEASE>ms",
				Description: "INPUTS (0..15) is a bitmask of watched inputs, 0b0000 none, 0b1111 all four.\n" +
					"RELEASE (0..5000) is the release time in ms.",
				Action: a.duckerOn,
			},
			{
				Name:        "ducker-range",
				Usage:       "Set the duck range",
				ArgsUsage:   "<HEX_VALUE>|<RANGE>dB",
				Description: "Valid range is 0dB to 90dB, or 0 to 0x1fffffff.",
				Action:      a.duckerRange,
			},
			{
				Name:        "ducker-threshold",
				Usage:       "Set the duck threshold",
				ArgsUsage:   "<HEX_VALUE>|<THRESH>dB",
				Description: "Valid range is -60dB to 0dB, or 0x000000 to 0x7fffff.",
				Action:      a.duckerThreshold,
			},
			{
				Name:   "meter",
				Usage:  "Show the level meter until Ctrl-C is pressed",
				Action: a.meter,
			},
			{
				Name:   "list",
				Usage:  "List attached supported devices",
				Action: a.list,
			},
			{
				Name:   "dump-tables",
				Hidden: true,
				Action: dumpTables,
			},
		},
	}
}

func main() {
	cfg := config.Load()

	logger := log.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	a := &app{
		cfg:        cfg,
		logger:     logger,
		openBus:    openUSB,
		isTerminal: func() bool { return scnp.IsTerminal(os.Stdout.Fd()) },
	}

	if err := newApp(a, os.Stdout).Run(os.Args); err != nil {
		logger.Errorf("Fatal: %v", err)
		os.Exit(1)
	}
}
