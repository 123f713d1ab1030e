package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jessevdk/go-flags"

	"github.com/go-git/go-delta/config"
	"github.com/go-git/go-delta/utils/trace"
)

const (
	bin = "go-delta"

	// Exit codes are defined in api-error-handling upstream:
	// https://github.com/git/git/blob/8be77c5de65442b331a28d63802c7a3b94a06c5a/Documentation/technical/api-error-handling.txt#L32-L46
	cannotStartExitCode      = 129
	fatalApplicationExitCode = 128
)

var version = "dev"

// globalOptions are accepted before any command.
type globalOptions struct {
	Config  string `long:"config" description:"Path of the configuration file." default:"go-delta.conf"`
	Verbose bool   `short:"v" long:"verbose" description:"Trace general operations."`
	Debug   bool   `long:"debug" description:"Trace every delta command."`
}

// cmd holds what every command shares once the global options are
// processed.
type cmd struct {
	fs  billy.Filesystem
	cfg *config.Config
}

func (c *cmd) setup(fs billy.Filesystem, cfg *config.Config) {
	c.fs = fs
	c.cfg = cfg
}

type setupper interface {
	setup(billy.Filesystem, *config.Config)
}

func main() {
	opts := &globalOptions{}
	parser := flags.NewNamedParser(bin, flags.Default)
	if _, err := parser.AddGroup("Global Options", "", opts); err != nil {
		fatal(err, cannotStartExitCode)
	}

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{"patch", "Apply a delta to a source file.", "Reconstructs the target of <delta> against <source> and writes it to stdout or --output.", &CmdPatch{}},
		{"inspect", "Describe a delta.", "Prints the header and every command of <delta>, checked against <source>.", &CmdInspect{}},
		{"unpack", "Unpack a directory of deltas.", "Applies every <name>.delta found in <dir> and stores the results under <dir>/objects.", &CmdUnpack{}},
		{"version", "Show the version information.", "Show the version information.", &CmdVersion{}},
	}

	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			fatal(err, cannotStartExitCode)
		}
	}

	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}

		fs := osfs.New(string(filepath.Separator))
		cfg, err := loadConfig(fs, opts)
		if err != nil {
			return err
		}

		trace.SetTarget(cfg.TraceTarget())
		if c, ok := command.(setupper); ok {
			c.setup(fs, cfg)
		}

		return command.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(cannotStartExitCode)
		}

		// go-flags already printed the error.
		os.Exit(fatalApplicationExitCode)
	}
}

func loadConfig(fs billy.Filesystem, opts *globalOptions) (*config.Config, error) {
	path, err := filepath.Abs(opts.Config)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(fs, path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", opts.Config, err)
	}

	if opts.Verbose {
		cfg.Trace.General = true
	}
	if opts.Debug {
		cfg.Trace.Delta = true
		cfg.Trace.Unpack = true
	}

	return cfg, nil
}

func fatal(err error, code int) {
	fmt.Fprintln(os.Stderr, "ERR:", err)
	os.Exit(code)
}

// CmdVersion prints the version.
type CmdVersion struct{}

// Execute runs the command.
func (CmdVersion) Execute(args []string) error {
	fmt.Printf("%s version %s\n", bin, version)
	return nil
}
