package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-docpage"
	"github.com/alnah/go-docpage/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand indicates the first argument names no command.
var ErrUnknownCommand = errors.New("unknown command")

// commands lists the recognized command names.
var commands = map[string]bool{
	"build":      true,
	"watch":      true,
	"css":        true,
	"init":       true,
	"version":    true,
	"help":       true,
	"completion": true,
}

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultDeps())
	stop()
	os.Exit(code)
}

// isCommand reports whether name is a docpage command.
func isCommand(name string) bool {
	return commands[name]
}

// commandNames returns the command names, sorted.
func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hintFor returns an actionable hint for err, or "" when none applies.
// Config lookup failures carry their own hint from loadConfig.
func hintFor(err error) string {
	switch {
	case errors.Is(err, docpage.ErrMissingPlaceholder):
		return hints.ForMissingPlaceholder()
	case errors.Is(err, docpage.ErrInvalidLanguage):
		return hints.ForInvalidLanguage()
	case errors.Is(err, docpage.ErrResourceNotFound):
		return hints.ForResourceNotFound()
	case errors.Is(err, docpage.ErrWriteFailure):
		return hints.ForOutputDirectory()
	case errors.Is(err, ErrUnknownCommand):
		return hints.ForUnknownCommand(commandNames())
	}
	return ""
}

// runMain dispatches to a command and returns the process exit code.
// With no command, or when the first argument is a flag, it builds.
func runMain(ctx context.Context, args []string, deps *Dependencies) int {
	rest := args[1:]
	command := "build"
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		command, rest = rest[0], rest[1:]
	}
	if !isCommand(command) {
		printUsage(deps.Stderr)
		fmt.Fprintf(deps.Stderr, "error: %v: %s%s\n", ErrUnknownCommand, command, hints.ForUnknownCommand(commandNames()))
		return ExitUsage
	}

	var err error
	switch command {
	case "build":
		err = runBuild(ctx, rest, deps)
	case "watch":
		err = runWatch(ctx, rest, deps)
	case "css":
		err = runCSS(rest, deps)
	case "init":
		err = runInit(rest, deps)
	case "version":
		fmt.Fprintf(deps.Stdout, "docpage %s\n", Version)
	case "help":
		err = runHelp(rest, deps)
	case "completion":
		err = runCompletion(rest, deps)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}
