package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"ngthis/packages/rules/consistentthis"
)

type options struct {
	properties         string
	variables          string
	templateReferences string

	configPath string
	fix        bool
	format     string
	watch      bool
	jobs       int
	verbose    bool
	quiet      bool
	noColor    bool

	paths []string
}

func newFlagSet(w io.Writer) (*flag.FlagSet, *options) {
	opts := &options{}
	fs := flag.NewFlagSet("ngthis", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }

	fs.StringVar(&opts.properties, "properties", "", "policy for component properties: explicit or implicit")
	fs.StringVar(&opts.variables, "variables", "", "policy for template variables: explicit or implicit")
	fs.StringVar(&opts.templateReferences, "template-references", "", "policy for template references: explicit or implicit")
	fs.StringVar(&opts.configPath, "config", "", "use this configuration file instead of searching for .ngthisrc.json")
	fs.BoolVar(&opts.fix, "fix", false, "write fixes back to the files")
	fs.StringVar(&opts.format, "format", "stylish", "output format: stylish or json")
	fs.BoolVar(&opts.watch, "watch", false, "lint again when files change")
	fs.IntVar(&opts.jobs, "jobs", runtime.GOMAXPROCS(0), "number of files linted in parallel")
	fs.BoolVar(&opts.verbose, "verbose", false, "log debug output")
	fs.BoolVar(&opts.quiet, "quiet", false, "report errors only")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	return fs, opts
}

// parseFlags accepts flags before and after the paths
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs, opts := newFlagSet(stderr)
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		opts.paths = append(opts.paths, fs.Arg(0))
		rest = fs.Args()[1:]
	}
	if len(opts.paths) == 0 {
		opts.paths = []string{"."}
	}

	switch opts.format {
	case "stylish", "json":
	default:
		return nil, fmt.Errorf("unknown format %q", opts.format)
	}
	for name, value := range map[string]string{
		"properties":          opts.properties,
		"variables":           opts.variables,
		"template-references": opts.templateReferences,
	} {
		switch consistentthis.Policy(value) {
		case "", consistentthis.PolicyExplicit, consistentthis.PolicyImplicit:
		default:
			return nil, fmt.Errorf("--%s must be explicit or implicit, got %q", name, value)
		}
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}
	return opts, nil
}

func newLogger(w io.Writer, opts *options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
