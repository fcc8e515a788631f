// Package wizard collects recommendation requirements in an interactive terminal flow.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/recommender"
	"github.com/sammcj/hfscout/styles"
)

// ErrCancelled is returned by Run when the user quits before finishing
var ErrCancelled = errors.New("wizard cancelled")

type step int

const (
	stepUseCase step = iota
	stepPriority
	stepVRAM
	stepContext
	stepLicense
	stepDone
)

const totalSteps = int(stepDone)

var stepTitles = map[step]string{
	stepUseCase:  "What will the model be used for?",
	stepPriority: "What matters most?",
	stepVRAM:     "How much VRAM is available (GB)?",
	stepContext:  "Minimum context length",
	stepLicense:  "License requirements",
}

// option is one row of a list step
type option struct {
	label       string
	description string
}

type contextOption struct {
	tokens int
	option
}

var contextOptions = []contextOption{
	{0, option{"Any", "No minimum"}},
	{4096, option{"4k tokens", "Short conversations"}},
	{8192, option{"8k tokens", "Standard"}},
	{16384, option{"16k tokens", "Long documents"}},
	{32768, option{"32k tokens", "Very long context"}},
	{65536, option{"64k+ tokens", "Massive context"}},
}

type licenseOption struct {
	need core.LicenseNeed
	option
}

var licenseOptions = []licenseOption{
	{core.LicenseAny, option{"Any", "Research, personal or commercial"}},
	{core.LicenseCommercial, option{"Commercial", "Must allow commercial deployment"}},
	{core.LicenseResearch, option{"Research", "Non-commercial use is fine"}},
}

// Model is the bubbletea model driving the wizard
type Model struct {
	step        step
	cursor      int
	useCases    []recommender.UseCase
	priorities  []recommender.Priority
	input       textinput.Model
	defaultVRAM float64
	req         core.RequirementSpec
	err         error
	cancelled   bool
	keys        KeyMap
}

// New starts a wizard. defaultVRAM is used when the VRAM answer is left blank; 0 means no limit.
func New(defaultVRAM float64) Model {
	ti := textinput.New()
	ti.Prompt = "VRAM (GB): "
	ti.CharLimit = 6
	ti.Width = 10
	if defaultVRAM > 0 {
		ti.Placeholder = strconv.FormatFloat(defaultVRAM, 'f', -1, 64)
	} else {
		ti.Placeholder = "no limit"
	}
	ti.PromptStyle = styles.PromptStyle()
	ti.TextStyle = styles.InputTextStyle()
	ti.PlaceholderStyle = styles.PlaceholderStyle()
	ti.Cursor.Style = styles.CursorStyle()

	return Model{
		useCases:    recommender.UseCases(),
		priorities:  recommender.Priorities(),
		input:       ti,
		defaultVRAM: defaultVRAM,
		keys:        NewKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Result returns the collected requirements and whether the wizard ran to completion
func (m Model) Result() (core.RequirementSpec, bool) {
	return m.req, m.step == stepDone && !m.cancelled
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.step == stepVRAM {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.back()
		return m, nil
	case key.Matches(keyMsg, m.keys.Select):
		return m.submit()
	}

	if m.step == stepVRAM {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < m.optionCount()-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m *Model) back() {
	if m.step == stepUseCase {
		return
	}
	m.err = nil
	m.goTo(m.step - 1)
}

func (m *Model) goTo(s step) {
	m.step = s
	m.cursor = 0
	if s == stepVRAM {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// submit records the answer for the current step and advances when it is valid
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.err = nil

	switch m.step {
	case stepUseCase:
		m.req.UseCase = m.useCases[m.cursor].Key
	case stepPriority:
		m.req.Priority = m.priorities[m.cursor].Key
	case stepVRAM:
		vram, err := m.parseVRAM()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.req.MaxVRAM = vram
		if err := recommender.Validate(m.req); err != nil {
			m.err = err
			return m, nil
		}
	case stepContext:
		m.req.MinContext = contextOptions[m.cursor].tokens
	case stepLicense:
		m.req.License = licenseOptions[m.cursor].need
		if err := recommender.Validate(m.req); err != nil {
			m.err = err
			return m, nil
		}
		m.goTo(stepDone)
		return m, tea.Quit
	}

	m.goTo(m.step + 1)
	return m, nil
}

func (m Model) parseVRAM() (float64, error) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(m.input.Value())), "GB"))
	if raw == "" {
		return m.defaultVRAM, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("enter a number of gigabytes, e.g. 24")
	}
	return v, nil
}

func (m Model) options() []option {
	switch m.step {
	case stepUseCase:
		out := make([]option, len(m.useCases))
		for i, uc := range m.useCases {
			out[i] = option{uc.Name, uc.Description}
		}
		return out
	case stepPriority:
		out := make([]option, len(m.priorities))
		for i, p := range m.priorities {
			out[i] = option{p.Name, p.Description}
		}
		return out
	case stepContext:
		out := make([]option, len(contextOptions))
		for i, c := range contextOptions {
			out[i] = c.option
		}
		return out
	case stepLicense:
		out := make([]option, len(licenseOptions))
		for i, l := range licenseOptions {
			out[i] = l.option
		}
		return out
	}
	return nil
}

func (m Model) optionCount() int {
	return len(m.options())
}

func (m Model) View() string {
	if m.cancelled || m.step == stepDone {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.HeaderStyle().Render(fmt.Sprintf("Step %d/%d: %s", int(m.step)+1, totalSteps, stepTitles[m.step])))
	b.WriteString("\n")

	if m.step == stepVRAM {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else {
		for i, o := range m.options() {
			line := fmt.Sprintf("  %s", o.label)
			if i == m.cursor {
				line = styles.SelectedItemStyle().Render("> " + o.label)
			}
			b.WriteString(line)
			b.WriteString(" " + styles.MutedStyle().Render(o.description) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n" + styles.ErrorStyle().Render(m.err.Error()) + "\n")
	}

	var help []string
	for _, k := range m.keys.help(m.step != stepVRAM) {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n" + styles.HelpTextStyle().Render(strings.Join(help, " • ")))
	return b.String()
}

// Run shows the wizard on out, reading keys from in, and returns the completed requirements
func Run(ctx context.Context, in io.Reader, out io.Writer, defaultVRAM float64) (core.RequirementSpec, error) {
	p := tea.NewProgram(New(defaultVRAM), tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return core.RequirementSpec{}, fmt.Errorf("failed to run wizard: %w", err)
	}

	req, ok := final.(Model).Result()
	if !ok {
		return core.RequirementSpec{}, ErrCancelled
	}
	return req, nil
}
