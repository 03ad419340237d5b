package sink

import (
	"flag"
	"fmt"

	"github.com/h2g2bob/ippserver/internal/job"
)

// FromArgs builds the sink named by a CLI subcommand and its arguments,
// mirroring __main__.py's subparsers: "save <dir>", "run [--env] <cmd...>",
// "saveandrun [--env] <dir> <cmd...>", "reject", "pc2paper --config <file>",
// and "load <name>" for the build-time registry lookup.
func FromArgs(subcommand string, args []string) (job.Sink, error) {
	switch subcommand {
	case NameSave:
		return fromSaveArgs(args)
	case NameRun:
		return fromRunArgs(args)
	case NameSaveAndRun:
		return fromSaveAndRunArgs(args)
	case NameReject:
		return RejectSink{}, nil
	case NamePC2Paper:
		return fromPC2PaperArgs(args)
	case "load":
		return fromLoadArgs(args)
	default:
		return nil, fmt.Errorf("sink: unknown subcommand %q (known: save, run, saveandrun, reject, pc2paper, load)", subcommand)
	}
}

func fromSaveArgs(args []string) (job.Sink, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("sink: save requires a directory argument")
	}
	return SaveSink{Dir: args[0]}, nil
}

func fromRunArgs(args []string) (job.Sink, error) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	useEnv := fs.Bool("env", false, "export job attributes into the command's environment")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cmd := fs.Args()
	if len(cmd) == 0 {
		return nil, fmt.Errorf("sink: run requires a command")
	}
	return RunSink{Command: cmd, UseEnv: *useEnv}, nil
}

func fromSaveAndRunArgs(args []string) (job.Sink, error) {
	fs := flag.NewFlagSet("saveandrun", flag.ContinueOnError)
	useEnv := fs.Bool("env", false, "export job attributes into the command's environment")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return nil, fmt.Errorf("sink: saveandrun requires a directory and a command")
	}
	return SaveAndRunSink{Dir: rest[0], Command: rest[1:], UseEnv: *useEnv}, nil
}

func fromPC2PaperArgs(args []string) (job.Sink, error) {
	fs := flag.NewFlagSet("pc2paper", flag.ContinueOnError)
	configPath := fs.String("config", "", "pc2paper JSON config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *configPath == "" {
		return nil, fmt.Errorf("sink: pc2paper requires --config")
	}
	cfg, err := LoadPostalConfig(*configPath)
	if err != nil {
		return nil, err
	}
	return PostalSink{Config: cfg}, nil
}

func fromLoadArgs(args []string) (job.Sink, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("sink: load requires a sink name")
	}
	name := args[0]
	rest := args[1:]
	if !IsRegistered(name) {
		return nil, ErrUnknownSink(name)
	}
	return FromArgs(name, rest)
}
