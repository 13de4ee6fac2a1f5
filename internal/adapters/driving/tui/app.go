// Package tui provides the interactive terminal search interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// searchCompleted carries the results of an asynchronous search.
type searchCompleted struct {
	results []domain.SearchResult
	err     error
}

// App is the bubbletea model for the search interface.
type App struct {
	ports  *Ports
	styles *Styles
	ctx    context.Context

	input    textinput.Model
	results  []domain.SearchResult
	selected int

	width      int
	height     int
	ready      bool
	searching  bool
	focusInput bool
	err        error
}

// NewApp creates the TUI application.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		ports = &Ports{}
	}
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = "Search legal documents..."
	input.Focus()

	return &App{
		ports:      ports,
		styles:     DefaultStyles(),
		ctx:        context.Background(),
		input:      input,
		width:      80,
		height:     24,
		focusInput: true,
	}, nil
}

// WithContext sets the context used for searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case searchCompleted:
		a.searching = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.results = msg.results
		a.selected = 0
		a.focusInput = false
		a.input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	if a.focusInput {
		switch msg.Type {
		case tea.KeyEsc:
			return a, tea.Quit
		case tea.KeyEnter:
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.searching = true
			a.err = nil
			return a, a.performSearch(query)
		default:
		}

		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Results mode.
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		a.focusInput = true
		a.input.Focus()
		return a, nil
	case tea.KeyUp:
		a.moveUp()
		return a, nil
	case tea.KeyDown:
		a.moveDown()
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "k":
		a.moveUp()
	case "j":
		a.moveDown()
	case "n":
		a.focusInput = true
		a.input.Focus()
		a.input.SetValue("")
	}

	return a, nil
}

func (a *App) moveUp() {
	if a.selected > 0 {
		a.selected--
	}
}

func (a *App) moveDown() {
	if a.selected < len(a.results)-1 {
		a.selected++
	}
}

// performSearch runs the retrieval pipeline off the update loop.
func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		opts := a.retrieveOptions()
		results, err := a.ports.Retriever.Retrieve(a.ctx, query, opts)
		return searchCompleted{results: results, err: err}
	}
}

// retrieveOptions loads retrieval defaults from settings when available.
func (a *App) retrieveOptions() domain.RetrieveOptions {
	retrieval := domain.DefaultSettings().Retrieval
	if a.ports.Settings != nil {
		if settings, err := a.ports.Settings.Get(); err == nil {
			retrieval = settings.Retrieval
		}
	}

	return domain.RetrieveOptions{
		Limit:             10,
		VectorWeight:      retrieval.VectorWeight,
		KeywordWeight:     retrieval.KeywordWeight,
		MinKeywordScore:   retrieval.MinKeywordScore,
		Reranking:         retrieval.Reranking,
		ContextWindowSize: retrieval.ContextWindowSize,
	}
}

// View renders the interface.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, a.styles.Title.Render("Lexica"), "")
	sections = append(sections, a.input.View(), "")

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}

	switch {
	case a.searching:
		sections = append(sections, a.styles.Status.Render("Searching..."))
	case len(a.results) > 0:
		sections = append(sections, a.renderResults())
	case !a.focusInput:
		sections = append(sections, a.styles.Faint.Render("No results."))
	}

	sections = append(sections, "", a.statusLine())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) renderResults() string {
	lines := make([]string, 0, len(a.results)*3)
	for i := range a.results {
		r := &a.results[i]

		name := r.DocumentName
		if name == "" {
			name = r.DocumentID
		}
		header := fmt.Sprintf("[%d] %s #%d (%.3f)", i+1, name, r.ChunkIndex, r.Score)

		if i == a.selected {
			lines = append(lines, a.styles.Selected.Render("> "+header))
		} else {
			lines = append(lines, a.styles.Normal.Render("  "+header))
		}

		meta := make([]string, 0, 2)
		if r.SectionNumber != "" || r.SectionTitle != "" {
			meta = append(meta, strings.TrimSpace("Section "+r.SectionNumber+" "+r.SectionTitle))
		}
		if r.ClauseType != "" {
			meta = append(meta, "Clause: "+r.ClauseType)
		}
		if len(meta) > 0 {
			lines = append(lines, a.styles.Faint.Render("    "+strings.Join(meta, "  ")))
		}

		lines = append(lines, a.styles.Faint.Render("    "+truncate(r.Text, a.width-6)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) statusLine() string {
	if a.focusInput {
		return a.styles.Status.Render("enter: search  esc: quit")
	}
	return a.styles.Status.Render(
		fmt.Sprintf("%d results  j/k: navigate  n: new search  q: quit", len(a.results)))
}

// truncate shortens text to width characters for single-line display.
func truncate(text string, width int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if width <= 3 || len(text) <= width {
		return text
	}
	return text[:width-3] + "..."
}

// Exposed for tests.

// Results returns the current results.
func (a *App) Results() []domain.SearchResult {
	return a.results
}

// SelectedIndex returns the index of the selected result.
func (a *App) SelectedIndex() int {
	return a.selected
}

// InputFocused reports whether the query input has focus.
func (a *App) InputFocused() bool {
	return a.focusInput
}

// Err returns the current error, if any.
func (a *App) Err() error {
	return a.err
}
