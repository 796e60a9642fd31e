package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-docpage/internal/assets"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpage <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render the Markdown source into the page template (default)")
	fmt.Fprintln(w, "  watch      Build, then rebuild when the source or template changes")
	fmt.Fprintln(w, "  css        Write the stylesheet for highlighted code")
	fmt.Fprintln(w, "  init       Write a starter template")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docpage help <command>' for details on a specific command.")
}

// printPageFlags prints the flags shared by build and watch.
func printPageFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "      --source <path>       Markdown source (default ../README.md)")
	fmt.Fprintln(w, "      --template <path>     HTML template with {body} (default ./template.html)")
	fmt.Fprintln(w, "  -o, --output <path>       Page to write (default ./www/index.html)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --html                Pass raw HTML through (default true)")
	fmt.Fprintln(w, "      --lang-prefix <s>     Class prefix for highlighted code (default language-)")
	fmt.Fprintln(w, "      --emoji <mode>        Emoji mode: glyph, entity, off")
	fmt.Fprintln(w, "      --rewrite-paths       Rebase relative links onto the output directory")
	fmt.Fprintln(w, "      --allow-missing-placeholder")
	fmt.Fprintln(w, "                            Warn instead of failing when the template lacks {body}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug diagnostics and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOCPAGE_CONFIG, DOCPAGE_SOURCE, DOCPAGE_TEMPLATE, DOCPAGE_OUTPUT, DOCPAGE_LOG_LEVEL")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpage build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the Markdown source into the page template.")
	fmt.Fprintln(w)
	printPageFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpage watch [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the page, then rebuild it whenever the source or template")
	fmt.Fprintln(w, "is written. Stops on interrupt.")
	fmt.Fprintln(w)
	printPageFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watch:")
	fmt.Fprintln(w, "      --debounce <d>        Delay before rebuilding (default 100ms)")
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpage css [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the stylesheet matching the highlighted code markup.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --style <name>        Chroma style (default github)")
	fmt.Fprintln(w, "  -o, --output <path>       Stylesheet path (default stdout)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpage init [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a starter HTML template containing {body}.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --template <path>     Template path to write (default ./template.html)")
	fmt.Fprintf(w, "      --name <name>         Starter template: %s (default %s)\n",
		strings.Join(assets.TemplateNames(), ", "), assets.DefaultTemplateName)
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing template")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) error {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return nil
	}

	switch args[0] {
	case "build":
		printBuildUsage(deps.Stdout)
	case "watch":
		printWatchUsage(deps.Stdout)
	case "css":
		printCSSUsage(deps.Stdout)
	case "init":
		printInitUsage(deps.Stdout)
	case "completion":
		printCompletionUsage(deps.Stdout)
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: docpage version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: docpage help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		printUsage(deps.Stderr)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return nil
}
