// Package tui is the interactive terminal front end for analysis runs.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	dombatch "github.com/kailas-cloud/cvdex/internal/domain/batch"
)

// Title is the header shown on every screen.
const Title = "CV Analysis"

// CompletedMessage is the status line after a successful run.
const CompletedMessage = "Analysis completed."

const (
	defaultWidth  = 80
	defaultHeight = 20
)

// Runner runs the analysis over every indexed file.
type Runner interface {
	RunAll(ctx context.Context, concurrency int) (*dombatch.Run, error)
}

// ResultStore holds the latest run between screens.
type ResultStore interface {
	Replace(run *dombatch.Run)
	Last() (*dombatch.Run, bool)
}

type screen int

const (
	screenList screen = iota
	screenDetails
)

// runFinishedMsg carries a completed run back to the model.
type runFinishedMsg struct {
	run *dombatch.Run
	err error
}

// item adapts a batch result to list.Item.
type item struct {
	res dombatch.Result
}

func (i item) Title() string {
	if p := i.res.Record().Profession(); p != "" {
		return p
	}
	return "(no profession)"
}

func (i item) Description() string {
	if i.res.Status() == dombatch.StatusOK {
		return i.res.FileName()
	}
	return fmt.Sprintf("%s [%s]", i.res.FileName(), i.res.Status())
}

func (i item) FilterValue() string { return i.res.Record().Profession() }

// Model is the Bubble Tea model of the TUI.
type Model struct {
	ctx     context.Context
	runner  Runner
	session ResultStore
	keys    KeyMap
	list    list.Model
	spinner spinner.Model
	help    help.Model
	screen  screen
	running bool
	status  string
	err     error
	width   int
}

// New creates a TUI model. A run already held by session is shown immediately.
func New(ctx context.Context, runner Runner, session ResultStore) Model {
	l := list.New(nil, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = "Candidates"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		runner:  runner,
		session: session,
		keys:    DefaultKeyMap(),
		list:    l,
		spinner: sp,
		help:    help.New(),
		status:  "Press r to run the analysis.",
		width:   defaultWidth,
	}
	if run, ok := session.Last(); ok {
		m.setRun(run)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(msg.Width, max(3, msg.Height-6))
		return m, nil

	case runFinishedMsg:
		m.running = false
		if msg.err != nil {
			m.err = msg.err
			m.status = "Analysis failed."
			return m, nil
		}
		m.err = nil
		m.session.Replace(msg.run)
		m.setRun(msg.run)
		m.status = CompletedMessage
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.screen == screenDetails:
			if key.Matches(msg, m.keys.Back) {
				m.screen = screenList
			}
			return m, nil
		case key.Matches(msg, m.keys.Run):
			if m.running {
				return m, nil
			}
			m.running = true
			m.status = "Running analysis..."
			return m, tea.Batch(m.spinner.Tick, m.runCmd())
		case key.Matches(msg, m.keys.Details):
			if _, ok := m.list.SelectedItem().(item); ok {
				m.screen = screenDetails
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	if m.screen == screenDetails {
		if it, ok := m.list.SelectedItem().(item); ok {
			b.WriteString(detailsStyle.Width(max(20, m.width-4)).Render(renderDetails(it.res)))
			b.WriteString("\n")
		}
	} else {
		if len(m.list.Items()) == 0 {
			b.WriteString(mutedStyle.Render("No results yet."))
		} else {
			b.WriteString(m.list.View())
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.running:
		return m.spinner.View() + " " + m.status
	case m.err != nil:
		return errorStyle.Render(m.status + " " + m.err.Error())
	case m.status == CompletedMessage:
		return successStyle.Render(m.status)
	default:
		return mutedStyle.Render(m.status)
	}
}

func (m Model) runCmd() tea.Cmd {
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		run, err := runner.RunAll(ctx, 0)
		return runFinishedMsg{run: run, err: err}
	}
}

func (m *Model) setRun(run *dombatch.Run) {
	results := run.Results()
	items := make([]list.Item, len(results))
	for i, res := range results {
		items[i] = item{res: res}
	}
	m.list.SetItems(items)
	m.list.Select(0)
	m.screen = screenList
}

func renderDetails(res dombatch.Result) string {
	rec := res.Record()
	var b strings.Builder
	b.WriteString(headingStyle.Render("More details"))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("File", res.FileName())
	if rec.IsEmpty() {
		field("Status", string(res.Status()))
		if reason := res.Reason(); reason != "" {
			field("Error", reason)
		}
		return b.String()
	}

	field("Profession", rec.Profession())
	field("Summary", rec.Summary())
	field("Years", strconv.Itoa(rec.Years()))
	field("Strongest skills", strings.Join(rec.StrongestSkills(), ", "))
	b.WriteString(labelStyle.Render("Challenges:"))
	b.WriteString("\n")
	for _, c := range rec.Challenges() {
		b.WriteString("  - " + c + "\n")
	}
	return b.String()
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, runner Runner, session ResultStore) error {
	p := tea.NewProgram(New(ctx, runner, session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
