// Package monitor implements the full-screen battery dashboard with
// BubbleTea. Sampling is driven by loop.Scheduler: every tick re-arms a
// timer for the remaining interval, and quitting cancels the scheduler so
// pending ticks are dropped.
package monitor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/sirupsen/logrus"

	"github.com/luki/battop/internal/app"
	"github.com/luki/battop/internal/loop"
	"github.com/luki/battop/internal/power"
)

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

// ── Model ────────────────────────────────────────────────────────────

// Recorder receives every successful sample.
type Recorder interface {
	Write(snap power.Snapshot, t time.Time) error
}

// Model is the BubbleTea model for the dashboard.
type Model struct {
	state    *app.State
	provider power.Provider
	sched    *loop.Scheduler
	recorder Recorder
	now      func() time.Time

	keys  keyMap
	help  help.Model
	gauge progress.Model
	host  string

	width  int
	height int

	fatal  error
	recErr error
}

type Option func(*Model)

func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithHost sets the host label instead of asking the OS.
func WithHost(name string) Option {
	return func(m *Model) { m.host = name }
}

// New creates the dashboard over st. st should already hold a sample so
// the first frame has data.
func New(st *app.State, p power.Provider, opts ...Option) Model {
	m := Model{
		state:    st,
		provider: p,
		now:      time.Now,
		keys:     keys,
		help:     help.New(),
		gauge: progress.New(
			progress.WithDefaultGradient(),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
	}
	for _, o := range opts {
		o(&m)
	}
	if m.host == "" {
		m.host = hostLabel()
	}
	m.sched = loop.NewScheduler(st.Config().TickRate(), m.now)
	return m
}

func hostLabel() string {
	h, err := host.Info()
	if err != nil {
		logrus.WithError(err).Debug("failed to read host info")
		return ""
	}
	return fmt.Sprintf("%s (%s)", h.Hostname, h.Platform)
}

// Fatal is the error that stopped the dashboard, if any.
func (m Model) Fatal() error { return m.fatal }

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tickCmd(m.sched.Remaining())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			logrus.Debug("quit requested")
			m.sched.Cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		if m.sched.Cancelled() {
			return m, nil
		}
		if !m.sched.Due() {
			return m, tickCmd(m.sched.Remaining())
		}
		if err := m.state.Update(m.provider); err != nil {
			logrus.WithError(err).Error("sampling failed")
			m.fatal = err
			m.sched.Cancel()
			return m, tea.Quit
		}
		m.record()
		m.sched.Reset()
		return m, tickCmd(m.sched.Remaining())
	}

	return m, nil
}

func (m *Model) record() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Write(m.state.Snapshot(), m.now()); err != nil {
		logrus.WithError(err).Warn("failed to record sample")
		m.recErr = err
		return
	}
	m.recErr = nil
}
