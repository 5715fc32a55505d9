// Package progress shows activity while cspace waits on gh.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/cspace/internal/ui/styles"
)

// messageUpdate replaces the text next to the spinner.
type messageUpdate string

type spinnerModel struct {
	spinner spinner.Model
	message string
	updates <-chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForMessage())
}

func (m spinnerModel) waitForMessage() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.updates
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.waitForMessage()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), m.message))
}

// Spinner animates on stderr until stopped. The zero value is unusable;
// use Start.
type Spinner struct {
	mu      sync.Mutex
	program *tea.Program
	updates chan string
	done    chan struct{}
	out     io.Writer
}

// Enabled reports whether a spinner can render: stderr must be a
// terminal and verbose output must not be interleaved with it.
func Enabled(verbose bool) bool {
	return !verbose && isatty.IsTerminal(os.Stderr.Fd())
}

// Start shows message next to a spinner. A disabled spinner is inert so
// callers need not branch on it.
func Start(message string, enabled bool) *Spinner {
	s := &Spinner{out: os.Stderr}
	if !enabled {
		return s
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.PrimaryStyle

	s.updates = make(chan string, 8)
	s.done = make(chan struct{})
	s.program = tea.NewProgram(
		spinnerModel{spinner: sp, message: message, updates: s.updates},
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
	return s
}

// Update changes the message. Updates are dropped when the spinner is
// busy redrawing.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updates == nil {
		return
	}
	select {
	case s.updates <- message:
	default:
	}
}

// Stop removes the spinner and clears its line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.updates == nil {
		s.mu.Unlock()
		return
	}
	close(s.updates)
	s.updates = nil
	s.mu.Unlock()

	s.program.Quit()
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}
	fmt.Fprint(s.out, "\r\033[K")
}
