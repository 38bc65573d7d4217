package tui

import (
	"context"

	"github.com/aurceive/drop_viewer/internal/catalog"
	"github.com/aurceive/drop_viewer/internal/domain"
	"github.com/aurceive/drop_viewer/internal/viewer"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
)

// ControllerFactory binds a fresh controller to the screen for one load lifetime.
type ControllerFactory func(v viewer.View) *viewer.Controller

// Fetcher performs the dataset fetch off the Update goroutine.
type Fetcher func(ctx context.Context) ([]domain.Record, error)

type loadedMsg struct {
	records []domain.Record
	err     error
}

type model struct {
	ctx    context.Context
	newCtl ControllerFactory
	fetch  Fetcher

	ctrl   *viewer.Controller
	screen *screen

	input  textinput.Model
	mode   mode
	cursor int
	width  int
	height int
}

func New(ctx context.Context, newCtl ControllerFactory, fetch Fetcher) tea.Model {
	return newModel(ctx, newCtl, fetch)
}

func newModel(ctx context.Context, newCtl ControllerFactory, fetch Fetcher) model {
	ti := textinput.New()
	ti.Placeholder = "equipment or monster"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := model{ctx: ctx, newCtl: newCtl, fetch: fetch, input: ti, height: 24, width: 100}
	m.bind()
	return m
}

func (m *model) bind() {
	m.screen = &screen{}
	m.ctrl = m.newCtl(m.screen)
	m.screen.ShowLoading()
	m.cursor = 0
}

func (m model) loadCmd() tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	return func() tea.Msg {
		records, err := fetch(ctx)
		return loadedMsg{records: records, err: err}
	}
}

func (m model) Init() tea.Cmd { return m.loadCmd() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		// The failure is already on screen and in the log.
		_ = m.ctrl.Complete(msg.records, msg.err)
		m.ctrl.Render()
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.ctrl.Search(v)
		m.afterRender(true)
	}
	return m, cmd
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.screen.loading {
		return m, nil
	}
	if m.screen.failed != nil {
		if key == "R" && m.screen.failed.Reload {
			m.bind()
			return m, m.loadCmd()
		}
		return m, nil
	}

	if m.screen.detail != nil {
		switch key {
		case "esc", "enter", "backspace":
			m.ctrl.CloseDetail()
		}
		return m, nil
	}

	switch key {
	case "/":
		m.mode = modeSearch
		return m, m.input.Focus()
	case "t":
		m.ctrl.SelectCategory(nextCategory(m.ctrl.Category(), m.ctrl.Categories()))
		m.afterRender(true)
	case "s":
		m.ctrl.ApplySort(nextSortKey(m.ctrl.SortKey()))
	case "r":
		m.input.SetValue("")
		m.ctrl.Reset()
		m.afterRender(true)
	case "left", "h", "pgup":
		m.ctrl.ChangePage(-1)
		m.afterRender(false)
	case "right", "l", "pgdown":
		m.ctrl.ChangePage(1)
		m.afterRender(false)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.screen.page.Rows)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.screen.page.Rows) {
			m.ctrl.ShowDetail(m.screen.page.Rows[m.cursor].Name)
		}
	}
	return m, nil
}

// afterRender moves the cursor home when the view changed or scrolled to top,
// and keeps it on the page otherwise.
func (m *model) afterRender(viewChanged bool) {
	if viewChanged || m.screen.scrollTop {
		m.cursor = 0
		m.screen.scrollTop = false
	}
	if n := len(m.screen.page.Rows); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func nextCategory(current string, cats []catalog.TypeCount) string {
	if len(cats) == 0 {
		return ""
	}
	if current == "" {
		return cats[0].Type
	}
	for i, c := range cats {
		if c.Type == current {
			if i+1 < len(cats) {
				return cats[i+1].Type
			}
			return ""
		}
	}
	return ""
}

func nextSortKey(current domain.SortKey) domain.SortKey {
	for i, k := range domain.SortKeys {
		if k == current {
			return domain.SortKeys[(i+1)%len(domain.SortKeys)]
		}
	}
	return domain.SortKeys[0]
}
