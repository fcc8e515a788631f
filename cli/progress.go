package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/logging"
	"github.com/sammcj/hfscout/styles"
)

const (
	padding  = 2
	maxWidth = 80
)

type progressMsg core.Event

type loadFinishedMsg struct{}

// poolProgress draws a bar while the model pool loads
type poolProgress struct {
	bar     progress.Model
	done    int
	total   int
	failed  int
	current string
}

func newPoolProgress() poolProgress {
	return poolProgress{bar: progress.New(progress.WithDefaultGradient())}
}

func (m poolProgress) Init() tea.Cmd {
	return nil
}

func (m poolProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2-4, maxWidth)
		return m, nil

	case progressMsg:
		m.total = msg.Total
		if msg.Type == core.EventPoolLoaded {
			return m, tea.Quit
		}
		m.done = max(m.done, msg.Done)
		m.current = msg.ModelID
		if msg.Type == core.EventPoolModelFailed {
			m.failed++
		}
		if m.total == 0 {
			return m, nil
		}
		return m, m.bar.SetPercent(float64(m.done) / float64(m.total))

	case loadFinishedMsg:
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m poolProgress) View() string {
	pad := strings.Repeat(" ", padding)
	status := "Loading model pool"
	if m.total > 0 {
		status = fmt.Sprintf("Loaded %d/%d %s", m.done, m.total, m.current)
	}
	if m.failed > 0 {
		status += styles.WarningStyle().Render(fmt.Sprintf(" (%d failed)", m.failed))
	}
	return "\n" + pad + m.bar.View() + "\n" + pad + styles.HelpTextStyle().Render(status) + "\n"
}

type poolResult struct {
	pool []core.ModelRecord
	err  error
}

// loadPool loads the explorer's pool, drawing progress on stderr when a person is watching
func (r *RootCommand) loadPool(ctx context.Context) ([]core.ModelRecord, error) {
	if r.opts.Quiet || r.opts.Format != OutputTable || !term.IsTerminal(int(os.Stderr.Fd())) {
		return r.explorer.Pool(ctx)
	}
	return loadWithProgress(ctx, r.events, os.Stderr, r.explorer.Pool)
}

func loadWithProgress(ctx context.Context, bus *core.EventBus, out io.Writer, load func(context.Context) ([]core.ModelRecord, error)) ([]core.ModelRecord, error) {
	events := bus.Subscribe()
	defer bus.Unsubscribe(events)

	p := tea.NewProgram(newPoolProgress(), tea.WithContext(ctx), tea.WithInput(nil), tea.WithOutput(out))

	go func() {
		for e := range events {
			p.Send(progressMsg(e))
		}
	}()

	result := make(chan poolResult, 1)
	go func() {
		pool, err := load(ctx)
		result <- poolResult{pool, err}
		p.Send(loadFinishedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		logging.DebugLogger.Printf("Progress display stopped: %v\n", err)
	}
	res := <-result
	return res.pool, res.err
}
