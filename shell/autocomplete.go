package shell

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/lexicard/lexicon"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-mode", "-category", "-battle", "-turns", "-level", "-seed"},
	},
	"help": {
		Args: []string{"new", "place", "free", "letter", "card", "commit", "spell", "gen"},
	},
}

func commandNames() []string {
	names := []string{"exit", "quit"}
	for k := range handlers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var optionValues = map[string][]string{
	"mode":   {"solo", "cpu", "local"},
	"battle": {"score", "hp"},
	"category": func() []string {
		s := make([]string, len(lexicon.Categories))
		for i, c := range lexicon.Categories {
			s[i] = string(c)
		}
		return s
	}(),
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames()
		for aliasName := range c.sc.aliases {
			completions = append(completions, aliasName)
		}
	} else {
		cmdName := fields[0]
		if aliasValue, isAlias := c.sc.aliases[cmdName]; isAlias {
			aliasFields, err := shellquote.Split(aliasValue)
			if err == nil && len(aliasFields) > 0 {
				cmdName = aliasFields[0]
			}
		}
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			completions = optionValues[strings.TrimPrefix(lastCompleteField, "-")]
		}
		// Card positions in the hand.
		if cmdName == "card" && completions == nil && c.sc.state != nil {
			for i := range c.sc.state.Mounted().SpecialHand {
				completions = append(completions, strconv.Itoa(i+1))
			}
		}
		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
