// Package confirm asks the operator whether the closest listed broadcast
// belongs to a recording that has no exact match.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Digital-Shane/otr-tidy/internal/guide"
	"github.com/Digital-Shane/otr-tidy/internal/tui/theme"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

const airTimeLayout = "Mon 02.01.2006 15:04"

// accepted lists the answers taken as yes, English and German.
var accepted = map[string]struct{}{"y": {}, "j": {}, "yes": {}, "ja": {}}

// IsYes reports whether answer accepts the proposal.
func IsYes(answer string) bool {
	_, ok := accepted[strings.ToLower(strings.TrimSpace(answer))]
	return ok
}

// Model is a single question prompt.
type Model struct {
	proposal    guide.Proposal
	input       textinput.Model
	theme       theme.Theme
	width       int
	answered    bool
	accepted    bool
	interrupted bool
}

// NewModel creates the question model for one proposal.
func NewModel(p guide.Proposal, th theme.Theme) *Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "y/n"
	in.CharLimit = 8
	in.Width = 8
	in.PromptStyle = th.KeyStyle()
	in.Focus()
	return &Model{proposal: p, input: in, theme: th, width: 80}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.answered = true
			m.accepted = IsYes(m.input.Value())
			return m, tea.Quit
		case tea.KeyEsc:
			m.answered = true
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.answered = true
			m.interrupted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if m.answered {
		return ""
	}

	inner := max(m.width-4, 20)
	entry := m.proposal.Closest
	lines := []string{
		fmt.Sprintf("%s No exact broadcast for %s", m.theme.Icon("question"),
			runewidth.Truncate(m.proposal.Recording, max(inner-30, 10), "…")),
		m.theme.MutedStyle().Render(fmt.Sprintf("%s recorded  %s", m.theme.Icon("calendar"), m.proposal.Wanted.Format(airTimeLayout))),
		fmt.Sprintf("%s closest   %s  %s.%s %s", m.theme.Icon("series"), entry.AirTime.Format(airTimeLayout),
			entry.Season, entry.Episode, runewidth.Truncate(entry.Title, max(inner-40, 10), "…")),
		"",
		"Use this broadcast? " + m.theme.KeyStyle().Render("y/j/yes/ja") + " accepts, anything else skips",
		m.input.View(),
	}
	return m.theme.PromptStyle().Width(inner).Render(strings.Join(lines, "\n")) + "\n"
}

// Accepted reports whether the operator accepted the proposal.
func (m *Model) Accepted() bool { return m.accepted }

// Interrupted reports whether the operator pressed ctrl+c.
func (m *Model) Interrupted() bool { return m.interrupted }

// Prompt implements guide.AmbiguityResolver with one bubbletea program per
// question.
type Prompt struct {
	in    io.Reader
	out   io.Writer
	theme theme.Theme
	// OnInterrupt runs when the operator presses ctrl+c, typically the
	// cancel func of the run context.
	OnInterrupt func()
}

// NewPrompt creates a prompt reading answers from in and drawing on out.
func NewPrompt(in io.Reader, out io.Writer, th theme.Theme) *Prompt {
	return &Prompt{in: in, out: out, theme: th}
}

// Confirm asks about one proposal.
func (p *Prompt) Confirm(ctx context.Context, proposal guide.Proposal) (bool, error) {
	model := NewModel(proposal, p.theme)
	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithoutSignalHandler(),
	)

	final, err := prog.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	m, ok := final.(*Model)
	if !ok {
		return false, errors.New("confirmation prompt: unexpected model")
	}
	if m.Interrupted() {
		if p.OnInterrupt != nil {
			p.OnInterrupt()
		}
		return false, context.Canceled
	}
	return m.Accepted(), nil
}

// Resolver picks how proposals are answered: a fixed yes when assumeYes is
// set, the interactive prompt when in is a terminal, and a fixed no otherwise.
func Resolver(in *os.File, out io.Writer, th theme.Theme, assumeYes bool, onInterrupt func()) guide.AmbiguityResolver {
	if assumeYes {
		return guide.StaticResolver(true)
	}
	if in == nil || !IsTerminal(in) {
		return guide.StaticResolver(false)
	}
	p := NewPrompt(in, out, th)
	p.OnInterrupt = onInterrupt
	return p
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
