package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"ngthis/packages/rules"
)

const (
	exitOK      = 0
	exitProblem = 1
	exitUsage   = 2
)

func usage(w io.Writer) {
	fmt.Fprintln(w, `ngthis - enforce a consistent this. prefix in Angular templates
Usage: ngthis [command] [flags] [path ...]

Commands:
  lint     Lint templates and inline component templates (default)
  rules    List the available rules
  help     Show help

Flags:`)
	fs, _ := newFlagSet(w)
	fs.PrintDefaults()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "help":
			usage(stdout)
			return exitOK
		case "rules":
			for _, name := range rules.Names() {
				fmt.Fprintf(stdout, "%s\t%s\n", name, rules.Rules[name].Meta.Docs.Description)
			}
			return exitOK
		case "lint":
			args = args[1:]
		}
	}

	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "ngthis: %v\n", err)
		return exitUsage
	}

	logger := newLogger(stderr, opts)
	r, err := newRunner(opts, logger)
	if err != nil {
		fmt.Fprintf(stderr, "ngthis: %v\n", err)
		return exitUsage
	}

	out := newFormatter(opts, stdout)
	if opts.watch {
		if err := r.watch(ctx, out); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "ngthis: %v\n", err)
			return exitUsage
		}
		return exitOK
	}

	results, err := r.lintAll(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "ngthis: %v\n", err)
		return exitUsage
	}
	if err := out.format(results); err != nil {
		fmt.Fprintf(stderr, "ngthis: %v\n", err)
		return exitUsage
	}
	for _, res := range results {
		if res.ErrorCount > 0 {
			return exitProblem
		}
	}
	return exitOK
}
