package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-libc/console"
	"github.com/wippyai/wasm-libc/host"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	echoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	consoleStyle = lipgloss.NewStyle().Italic(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// historyShown caps the transcript lines drawn above the prompt.
const historyShown = 12

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Call the host functions from a terminal prompt",
		Long: `Opens a prompt where each line is a host call, for example

  strtol -ff 16
  atol "0x1A3F"
  mbtowc "€" 2

Type "help" for the function list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("interactive mode needs a terminal")
			}
			// log lines would tear the alternate screen
			if !a.verbose {
				a.logger = zap.NewNop()
			}
			opts := append(a.cfg.HostOptions(), host.WithLogger(a.logger))
			_, err := tea.NewProgram(newInteractiveModel(opts...), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// entry is one evaluated prompt line.
type entry struct {
	line    string
	value   string
	console string
	err     error
}

type interactiveModel struct {
	env     *host.Env
	out     *bytes.Buffer
	prompt  textinput.Model
	entries []entry
	recall  int // index into entries while browsing with up/down; len(entries) when idle
}

func newInteractiveModel(opts ...host.Option) *interactiveModel {
	out := &bytes.Buffer{}
	env := host.NewEnv(append(opts, host.WithConsole(console.New(out)))...)

	ti := textinput.New()
	ti.Prompt = promptStyle.Render("env> ")
	ti.Placeholder = "strtol 7f 16"
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{env: env, out: out, prompt: ti}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.prompt.Value())
			m.prompt.Reset()
			if line == "quit" || line == "exit" {
				return m, tea.Quit
			}
			if line != "" {
				m.entries = append(m.entries, m.eval(line))
			}
			m.recall = len(m.entries)
			return m, nil
		case tea.KeyUp:
			if m.recall > 0 {
				m.recall--
				m.prompt.SetValue(m.entries[m.recall].line)
				m.prompt.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			if m.recall < len(m.entries)-1 {
				m.recall++
				m.prompt.SetValue(m.entries[m.recall].line)
				m.prompt.CursorEnd()
			} else {
				m.recall = len(m.entries)
				m.prompt.Reset()
			}
			return m, nil
		case tea.KeyTab:
			m.complete()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// eval runs one prompt line against the host environment.
func (m *interactiveModel) eval(line string) entry {
	e := entry{line: line}
	name, args, err := splitCall(line)
	if err != nil {
		e.err = err
		return e
	}
	if name == "help" {
		e.value = helpText()
		return e
	}
	// n defaults to the length of s
	if name == "mbtowc" && len(args) == 1 {
		args = append(args, "")
	}

	m.out.Reset()
	e.value, e.err = callHost(m.env, name, args)
	e.console = m.out.String()
	return e
}

// complete extends the function name being typed when exactly one export
// matches it.
func (m *interactiveModel) complete() {
	v := m.prompt.Value()
	if strings.ContainsRune(v, ' ') {
		return
	}
	var match string
	for _, ex := range host.Exports() {
		if strings.HasPrefix(ex.Name, v) {
			if match != "" {
				return
			}
			match = ex.Name
		}
	}
	if match != "" {
		m.prompt.SetValue(match + " ")
		m.prompt.CursorEnd()
	}
}

// splitCall splits a prompt line into a function name and arguments.
// Arguments are separated by spaces; a double-quoted argument may contain
// spaces and Go escapes.
func splitCall(line string) (string, []string, error) {
	var fields []string
	rest := strings.TrimSpace(line)
	for rest != "" {
		if rest[0] == '"' {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return "", nil, fmt.Errorf("bad quoted argument: %w", err)
			}
			s, _ := strconv.Unquote(quoted)
			fields = append(fields, s)
			rest = strings.TrimLeft(rest[len(quoted):], " ")
			continue
		}
		end := strings.IndexByte(rest, ' ')
		if end < 0 {
			end = len(rest)
		}
		fields = append(fields, rest[:end])
		rest = strings.TrimLeft(rest[end:], " ")
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("empty line")
	}
	return fields[0], fields[1:], nil
}

func helpText() string {
	var b strings.Builder
	for i, ex := range host.Exports() {
		if i > 0 {
			b.WriteString("\n")
		}
		names := make([]string, 0, len(hostParams[ex.Name]))
		for _, p := range hostParams[ex.Name] {
			names = append(names, p.name+" <"+p.typeStr+">")
		}
		fmt.Fprintf(&b, "%-14s %s", ex.Name, strings.Join(names, " "))
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wlibc"))
	b.WriteString(" host functions\n\n")

	start := max(0, len(m.entries)-historyShown)
	for _, e := range m.entries[start:] {
		b.WriteString(echoStyle.Render("env> " + e.line))
		b.WriteString("\n")
		switch {
		case e.err != nil:
			b.WriteString(failStyle.Render(e.err.Error()))
		default:
			b.WriteString(valueStyle.Render(e.value))
		}
		b.WriteString("\n")
		if e.console != "" {
			b.WriteString(consoleStyle.Render("console: " + e.console))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.prompt.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter call • tab complete • ↑/↓ history • help • ctrl+c quit"))
	return b.String()
}
