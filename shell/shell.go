package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/lexicard/cards"
	"github.com/domino14/lexicard/config"
	"github.com/domino14/lexicard/cpu"
	"github.com/domino14/lexicard/game"
	"github.com/domino14/lexicard/lexicon"
	"github.com/domino14/lexicard/match"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
)

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string
	version  string

	state     *game.State
	mode      match.Mode
	dict      *lexicon.Dictionary
	catalogue *cards.Catalogue
	cpuOpts   cpu.Options

	aliases map[string]string
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func newController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	return &ShellController{
		config:   cfg,
		execPath: execPath,
		version:  gitVersion,
		cpuOpts:  cpu.OptionsFromConfig(cfg),
		aliases:  map[string]string{},
	}
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newController(cfg, execPath, gitVersion)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mlexicard>\033[0m ",
		HistoryFile:     "/tmp/lexicard_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    &ShellCompleter{sc: sc},

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a line into a command, its positional arguments and
// its -option value pairs. Quoted strings stay together.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			cmd.options[key] = append(cmd.options[key], fields[i+1])
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

// expandAlias replaces a leading alias with its definition.
func (sc *ShellController) expandAlias(line string) string {
	first, rest, _ := strings.Cut(line, " ")
	if v, ok := sc.aliases[first]; ok {
		return strings.TrimSpace(v + " " + rest)
	}
	return line
}

// Execute runs one command line and prints its output.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(sc.expandAlias(line))
	if err != nil {
		if !errors.Is(err, errNoData) {
			sc.showError(err)
		}
		return
	}
	if cmd.cmd == "exit" || cmd.cmd == "quit" {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.dispatch(context.Background(), cmd)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up shell")
	if sc.state != nil && sc.state.Finished {
		res := match.ResultOf("", sc.mode, sc.state)
		log.Info().Interface("players", res.Players).Int("winner", res.Winner).Msg("last-game")
	}
}

func (sc *ShellController) prompt() {
	if sc.state == nil || sc.l == nil {
		return
	}
	side := sc.state.Mounted()
	sc.l.SetPrompt(fmt.Sprintf("\033[31mlexicard\033[0m [%s %s]> ", side.Name, side.Rack))
}
