package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-docpage/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagEnum // has predefined values
	flagFile // file with glob pattern
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // positional values, e.g. shells for completion
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types and descriptions come from the FlagSet.
type completionMeta struct {
	Values   func() []string // enum values
	FileGlob string          // file glob pattern
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"emoji": {Values: func() []string { return []string{"glyph", "entity", "off"} }},
	"style": {Values: styles.Names},
	"name":  {Values: assets.TemplateNames},

	"config":   {FileGlob: "*.yaml,*.yml"},
	"source":   {FileGlob: "*.md,*.markdown"},
	"template": {FileGlob: "*.html"},
	"output":   {FileGlob: "*.html,*.css"},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
			Type:  flagString,
		}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if meta.Values != nil {
				fd.Type = flagEnum
				fd.Values = meta.Values()
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "build", Desc: "Render the page", Flags: extractFlagsFromFlagSet(newPageFlagSet("build", false, &pageFlags{}))},
		{Name: "watch", Desc: "Rebuild on change", Flags: extractFlagsFromFlagSet(newPageFlagSet("watch", true, &pageFlags{}))},
		{Name: "css", Desc: "Write the highlight stylesheet", Flags: extractFlagsFromFlagSet(newCSSFlagSet(&cssFlags{}))},
		{Name: "init", Desc: "Write a starter template", Flags: extractFlagsFromFlagSet(newInitFlagSet(&initFlags{}))},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: commandNames()},
		{Name: "completion", Desc: "Generate shell completion script", Args: shellNames()},
	}
}

func shellNames() []string {
	return []string{string(ShellBash), string(ShellFish), string(ShellZsh)}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(shellNames(), ", "))
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, deps *Dependencies) error {
	if len(args) == 0 {
		printCompletionUsage(deps.Stdout)
		return nil
	}
	return GenerateCompletion(deps.Stdout, Shell(args[0]))
}

// flagWords returns every --long and -s spelling of flags, sorted.
func flagWords(flags []flagDef) []string {
	words := make([]string, 0, 2*len(flags))
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	sort.Strings(words)
	return words
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}

	b.WriteString("# bash completion for docpage\n")
	b.WriteString("_docpage() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		if len(c.Flags) > 0 {
			b.WriteString("        case \"${prev}\" in\n")
			for _, f := range c.Flags {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern += "|-" + f.Short
				}
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "            %s) COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\")); return ;;\n", pattern, strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "            %s) COMPREPLY=($(compgen -f -- \"${cur}\")); return ;;\n", pattern)
				case flagString:
					fmt.Fprintf(&b, "            %s) return ;;\n", pattern)
				}
			}
			b.WriteString("        esac\n")
		}
		words := append(flagWords(c.Flags), c.Args...)
		fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(words, " "))
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _docpage docpage\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// generateZsh loads the bash script through bashcompinit.
func generateZsh(w io.Writer, cmds []commandDef) error {
	if _, err := io.WriteString(w, "#compdef docpage\nautoload -U +X bashcompinit && bashcompinit\n"); err != nil {
		return err
	}
	return generateBash(w, cmds)
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for docpage\n")
	b.WriteString("complete -c docpage -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c docpage -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishQuote(c.Desc))
	}

	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c docpage -n '%s' -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c docpage -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				b.WriteString(" -r -F")
			case flagString:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishQuote(f.Desc))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishQuote(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docpage completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(docpage completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc:")
	fmt.Fprintln(w, "    eval \"$(docpage completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    docpage completion fish > ~/.config/fish/completions/docpage.fish")
}
