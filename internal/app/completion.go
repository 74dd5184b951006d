// Where: internal/app/completion.go
// What: Shell completion command implementation.
// Why: Provide tab completion for bash and fish from the Kong model.
package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/meta"
)

// CompletionCmd defines the structure for the completion command.
type CompletionCmd struct {
	Bash CompletionBashCmd `cmd:"" help:"Generate bash completion script"`
	Fish CompletionFishCmd `cmd:"" help:"Generate fish completion script"`
}

type (
	CompletionBashCmd struct{}
	CompletionFishCmd struct{}
)

type completionNode struct {
	name  string
	help  string
	flags []string
	subs  []string
}

func completionNodes(cli CLI) []completionNode {
	parser, err := kong.New(&cli, kong.Name(meta.AppName))
	if err != nil {
		return nil
	}
	var nodes []completionNode
	for _, node := range parser.Model.Children {
		if node.Hidden {
			continue
		}
		entry := completionNode{name: node.Name, help: node.Help}
		for _, flag := range node.Flags {
			entry.flags = append(entry.flags, "--"+flag.Name)
		}
		for _, sub := range node.Children {
			if !sub.Hidden {
				entry.subs = append(entry.subs, sub.Name)
			}
		}
		nodes = append(nodes, entry)
	}
	return nodes
}

func runCompletionBash(cli CLI, out io.Writer) int {
	nodes := completionNodes(cli)
	commands := make([]string, 0, len(nodes))
	var cases []string
	for _, node := range nodes {
		commands = append(commands, node.name)
		words := append(append([]string{}, node.subs...), node.flags...)
		if len(words) == 0 {
			continue
		}
		cases = append(cases, fmt.Sprintf(`        %s)
            COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
            [[ ${#COMPREPLY[@]} -eq 0 ]] && COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;`, node.name, strings.Join(words, " ")))
	}

	script := `_%[1]s_completion() {
    local cur cmd
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    cmd="${COMP_WORDS[1]}"
    if [[ ${COMP_CWORD} -gt 1 ]]; then
        case "${cmd}" in
%[3]s
        esac
    fi
    COMPREPLY=( $(compgen -W "%[2]s" -- "${cur}") )
}
complete -F _%[1]s_completion %[1]s
`
	fmt.Fprintf(out, script, meta.AppName, strings.Join(commands, " "), strings.Join(cases, "\n"))
	return 0
}

func runCompletionFish(cli CLI, out io.Writer) int {
	for _, node := range completionNodes(cli) {
		fmt.Fprintf(out, "complete -c %s -n '__fish_use_subcommand' -a %s -d '%s'\n", meta.AppName, node.name, node.help)
		for _, sub := range node.subs {
			fmt.Fprintf(out, "complete -c %s -f -n '__fish_seen_subcommand_from %s' -a %s\n", meta.AppName, node.name, sub)
		}
		for _, flag := range node.flags {
			fmt.Fprintf(out, "complete -c %s -n '__fish_seen_subcommand_from %s' -l %s\n", meta.AppName, node.name, strings.TrimPrefix(flag, "--"))
		}
	}
	return 0
}
