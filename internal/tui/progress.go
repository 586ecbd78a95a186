package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hassan-ach/homelab/internal/provision"
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepSkipped
	stepFailed
)

type progressStep struct {
	label  string
	status stepStatus
	detail string
}

type stageResultMsg provision.Result

type runDoneMsg struct {
	err error
}

type progressModel struct {
	driver  *provision.Driver
	results chan provision.Result
	spinner spinner.Model
	steps   []progressStep
	current int
	done    bool
	err     error
}

func newProgressModel(driver *provision.Driver) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	steps := make([]progressStep, len(provision.StageNames))
	for i, name := range provision.StageNames {
		steps[i] = progressStep{label: name}
	}

	results := make(chan provision.Result, len(steps))
	driver.Notify = func(r provision.Result) {
		results <- r
	}

	return &progressModel{
		driver:  driver,
		results: results,
		spinner: sp,
		steps:   steps,
	}
}

func (m *progressModel) Init() tea.Cmd {
	m.steps[0].status = stepRunning
	return tea.Batch(m.spinner.Tick, m.startRun(), m.waitResult())
}

func (m *progressModel) startRun() tea.Cmd {
	return func() tea.Msg {
		err := m.driver.Run()
		close(m.results)
		return runDoneMsg{err: err}
	}
}

func (m *progressModel) waitResult() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.results
		if !ok {
			return nil
		}
		return stageResultMsg(r)
	}
}

func (m *progressModel) apply(r provision.Result) {
	for i := range m.steps {
		if m.steps[i].label != r.Stage {
			continue
		}
		switch r.Status {
		case provision.StatusSuccess:
			m.steps[i].status = stepDone
		case provision.StatusSkipped:
			m.steps[i].status = stepSkipped
		case provision.StatusFailed:
			m.steps[i].status = stepFailed
		}
		m.steps[i].detail = r.Detail
		if i+1 < len(m.steps) && r.Status != provision.StatusFailed {
			m.steps[i+1].status = stepRunning
			m.current = i + 1
		}
		return
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stageResultMsg:
		m.apply(provision.Result(msg))
		return m, m.waitResult()

	case runDoneMsg:
		// Drain anything the run produced after the last wait.
		for r := range m.results {
			m.apply(r)
		}
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if isQuit(msg) {
			m.err = fmt.Errorf("interrupted; host left at the last completed stage")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Provisioning"))
	b.WriteString("\n")

	for _, step := range m.steps {
		switch step.status {
		case stepRunning:
			b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), normalStyle.Render(step.label)))
		case stepDone:
			b.WriteString(fmt.Sprintf("  %s %s", successStyle.Render("ok"), normalStyle.Render(step.label)))
			if step.detail != "" {
				b.WriteString("  " + mutedStyle.Render(step.detail))
			}
			b.WriteString("\n")
		case stepSkipped:
			b.WriteString(fmt.Sprintf("  %s %s", mutedStyle.Render("--"), normalStyle.Render(step.label)))
			if step.detail != "" {
				b.WriteString("  " + mutedStyle.Render(step.detail))
			}
			b.WriteString("\n")
		case stepFailed:
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				errorStyle.Render("!!"),
				normalStyle.Render(step.label),
				mutedStyle.Render(step.detail)))
		default:
			b.WriteString(fmt.Sprintf("  %s %s\n", mutedStyle.Render("  "), mutedStyle.Render(step.label)))
		}
	}

	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render("  provisioning failed"))
		} else {
			b.WriteString(successStyle.Render("  provisioning complete"))
			b.WriteString("\n")
			for _, s := range m.driver.Services() {
				b.WriteString(fmt.Sprintf("    %-12s %s\n", s.Name, mutedStyle.Render(s.State)))
			}
		}
		b.WriteString("\n")
	} else {
		b.WriteString(helpStyle.Render("\n  ctrl+c: abandon run"))
		b.WriteString("\n")
	}

	return b.String()
}
