package prompt

import (
	"context"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/cspace/internal/ui/styles"
)

// Option is one selectable entry.
type Option struct {
	Title       string
	Description string
}

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Index     int
	Cancelled bool
}

type listItem struct {
	Option
	index int
}

func (i listItem) Title() string       { return i.Option.Title }
func (i listItem) Description() string { return i.Option.Description }
func (i listItem) FilterValue() string { return i.Option.Title }

type selectModel struct {
	list      list.Model
	done      bool
	cancelled bool
	selected  int
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

var (
	chooseKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose"))
	cancelKey = key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel"))
)

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch {
		case msg.String() == "ctrl+c" || (!filtering && key.Matches(msg, cancelKey)):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case !filtering && key.Matches(msg, chooseKey):
			if item, ok := m.list.SelectedItem().(listItem); ok {
				m.selected = item.index
			}
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

func newSelectModel(prompt string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	hasDescription := false
	for i, opt := range options {
		items[i] = listItem{Option: opt, index: i}
		hasDescription = hasDescription || opt.Description != ""
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = hasDescription
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)

	height := len(options) + 6
	if hasDescription {
		height = 2*len(options) + 6
	}
	l := list.New(items, delegate, 72, min(height, 20))
	l.Title = prompt
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{chooseKey, cancelKey}
	}

	return selectModel{list: l, selected: -1}
}

// Select shows a filterable list and returns the chosen index.
func Select(ctx context.Context, prompt string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	final, err := run(ctx, newSelectModel(prompt, options))
	if err != nil {
		return SelectResult{}, err
	}
	m := final.(selectModel)

	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{Index: m.selected}, nil
}
