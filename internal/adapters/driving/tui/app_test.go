package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// mockRetriever returns canned results.
type mockRetriever struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastOpts  domain.RetrieveOptions
}

func (m *mockRetriever) Retrieve(
	_ context.Context,
	query string,
	opts domain.RetrieveOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

func newTestApp(t *testing.T, retriever *mockRetriever) *App {
	t.Helper()
	app, err := NewApp(&Ports{Retriever: retriever})
	require.NoError(t, err)

	// Simulate the initial window size message.
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model.(*App)
}

func TestNewAppRequiresRetriever(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrNoRetrieverService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrNoRetrieverService)
}

func TestAppSearchFlow(t *testing.T) {
	retriever := &mockRetriever{
		results: []domain.SearchResult{
			{DocumentID: "doc-1", DocumentName: "MSA", Text: "indemnify and hold harmless", Score: 0.1},
			{DocumentID: "doc-2", DocumentName: "NDA", Text: "confidential information", Score: 0.4},
		},
	}
	app := newTestApp(t, retriever)

	app.input.SetValue("indemnification")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	require.NotNil(t, cmd)
	assert.True(t, app.searching)

	// Run the search command and feed its message back.
	msg := cmd()
	model, _ = app.Update(msg)
	app = model.(*App)

	assert.Equal(t, "indemnification", retriever.lastQuery)
	assert.Len(t, app.Results(), 2)
	assert.False(t, app.InputFocused())
	assert.NoError(t, app.Err())
}

func TestAppEmptyQueryIsIgnored(t *testing.T) {
	app := newTestApp(t, &mockRetriever{})

	app.input.SetValue("   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestAppSearchErrorIsShown(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("index unavailable")}
	app := newTestApp(t, retriever)

	app.input.SetValue("venue")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	require.NotNil(t, cmd)

	model, _ = app.Update(cmd())
	app = model.(*App)

	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "index unavailable")
}

func TestAppResultNavigation(t *testing.T) {
	app := newTestApp(t, &mockRetriever{})
	app.results = []domain.SearchResult{
		{DocumentID: "a"}, {DocumentID: "b"}, {DocumentID: "c"},
	}
	app.focusInput = false

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(*App)
	assert.Equal(t, 1, app.SelectedIndex())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	app = model.(*App)
	assert.Equal(t, 2, app.SelectedIndex())

	// Bottom of the list: stays put.
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(*App)
	assert.Equal(t, 2, app.SelectedIndex())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	app = model.(*App)
	assert.Equal(t, 1, app.SelectedIndex())
}

func TestAppNewSearchRefocusesInput(t *testing.T) {
	app := newTestApp(t, &mockRetriever{})
	app.focusInput = false
	app.input.Blur()

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	app = model.(*App)

	assert.True(t, app.InputFocused())
	assert.Empty(t, app.input.Value())
}

func TestAppQuitKeys(t *testing.T) {
	app := newTestApp(t, &mockRetriever{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	app.focusInput = false
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAppViewRendersResults(t *testing.T) {
	retriever := &mockRetriever{
		results: []domain.SearchResult{
			{
				DocumentID:    "doc-1",
				DocumentName:  "Lease Agreement",
				ChunkIndex:    2,
				Score:         0.25,
				SectionNumber: "9",
				SectionTitle:  "Termination.",
				ClauseType:    "termination",
				Text:          "Either party may terminate upon notice.",
			},
		},
	}
	app := newTestApp(t, retriever)

	app.input.SetValue("termination")
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	model, _ = app.Update(cmd())
	app = model.(*App)

	view := app.View()
	assert.Contains(t, view, "Lexica")
	assert.Contains(t, view, "Lease Agreement")
	assert.Contains(t, view, "Clause: termination")
	assert.Contains(t, view, "1 results")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "multi line", truncate("multi\nline", 20))
	assert.Equal(t, "0123456...", truncate("0123456789abcdef", 10))
}
