package tray

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchhub/internal/session"
	"watchhub/pkg/models"
)

func readyState() session.State {
	return session.State{
		Phase:   session.PhaseReady,
		MediaID: 6594,
		Found:   true,
		Series:  "Katanagatari",
		Order:   "Broadcast order",
		Items: []models.DisplayItem{
			{Kind: models.ItemTextBlock, Block: &models.Block{Chunks: []models.Chunk{
				{Kind: models.ChunkText, Content: "Read "},
				{Kind: models.ChunkLink, Content: "the discussion", Href: "https://example.com/thread"},
			}}},
			{Kind: models.ItemAnime, Media: &models.Media{ID: 6594, Title: "Katanagatari", SiteURL: "https://anilist.co/anime/6594"}},
			{Kind: models.ItemTextBlock, Block: &models.Block{Chunks: []models.Chunk{
				{Kind: models.ChunkLink, Content: "another link", Href: "https://example.com/two"},
			}}},
		},
	}
}

func newReadyModel() Model {
	m := NewModel(NewClient("http://localhost:8080"), Config{API: "http://localhost:8080"}, 0)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	updated, _ = m.Update(stateMsg(readyState()))
	return updated.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestCollectTargets(t *testing.T) {
	targets := collectTargets(readyState())

	require.Len(t, targets, 3)
	assert.Equal(t, "link", targets[0].kind)
	assert.Equal(t, "the discussion", targets[0].label)
	assert.Equal(t, "https://example.com/thread", targets[0].url)

	assert.Equal(t, "anime", targets[1].kind)
	assert.Equal(t, "Katanagatari", targets[1].label)
	assert.Equal(t, "https://anilist.co/anime/6594", targets[1].url)

	assert.Equal(t, "link", targets[2].kind)
	assert.Equal(t, "https://example.com/two", targets[2].url)
}

func TestCollectTargets_SkipsNilPayloads(t *testing.T) {
	st := session.State{Items: []models.DisplayItem{
		{Kind: models.ItemTextBlock},
		{Kind: models.ItemAnime},
	}}
	assert.Empty(t, collectTargets(st))
}

func TestModelNavigation(t *testing.T) {
	m := newReadyModel()
	require.Len(t, m.targets, 3)
	assert.Equal(t, 0, m.cursor)

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(keyMsg("j"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, 2, m.cursor, "cursor stops at the last target")

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	assert.Equal(t, 1, m.cursor)
}

func TestModelCursorClampsOnShrink(t *testing.T) {
	m := newReadyModel()
	m.cursor = 2

	st := readyState()
	st.Items = st.Items[:1] // one link left
	updated, _ := m.Update(stateMsg(st))
	m = updated.(Model)

	assert.Equal(t, 0, m.cursor)
}

func TestModelQuit(t *testing.T) {
	m := newReadyModel()

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelLookupPrompt(t *testing.T) {
	m := newReadyModel()

	updated, _ := m.Update(keyMsg("l"))
	m = updated.(Model)
	assert.True(t, m.prompting)

	// esc backs out without a lookup
	updated, cmd := m.Update(keyMsg("esc"))
	m = updated.(Model)
	assert.False(t, m.prompting)
	assert.Nil(t, cmd)

	// a numeric id starts a lookup
	updated, _ = m.Update(keyMsg("l"))
	m = updated.(Model)
	m.input.SetValue("6594")
	updated, cmd = m.Update(keyMsg("enter"))
	m = updated.(Model)
	assert.False(t, m.prompting)
	assert.NotNil(t, cmd)

	// junk input stays local
	updated, _ = m.Update(keyMsg("l"))
	m = updated.(Model)
	m.input.SetValue("not a number")
	updated, cmd = m.Update(keyMsg("enter"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.NotEmpty(t, m.status)
}

func TestModelConfirmationCapturesKeys(t *testing.T) {
	m := newReadyModel()
	st := m.state
	st.Confirmation = &models.LinkConfirmation{
		ID: "abc", URL: "https://example.com", Message: "Open external link? https://example.com",
	}
	updated, _ := m.Update(stateMsg(st))
	m = updated.(Model)

	// navigation keys are swallowed while the prompt is up
	before := m.cursor
	updated, cmd := m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, before, m.cursor)
	assert.Nil(t, cmd)

	// but ctrl+c still quits
	_, cmd = m.Update(keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// y answers the prompt
	_, cmd = m.Update(keyMsg("y"))
	assert.NotNil(t, cmd)
}

func TestModelView(t *testing.T) {
	m := NewModel(NewClient("http://localhost:8080"), Config{}, 0)
	assert.Equal(t, "Initialising...", m.View())

	m = newReadyModel()
	out := m.View()
	assert.Contains(t, out, "watchhub")
	assert.Contains(t, out, "Katanagatari")
	assert.Contains(t, out, "Broadcast order")
	assert.Contains(t, out, "q quit")

	st := m.state
	st.Confirmation = &models.LinkConfirmation{ID: "abc", Message: "Open external link? https://example.com"}
	updated, _ := m.Update(stateMsg(st))
	m = updated.(Model)
	assert.Contains(t, m.View(), "[y] open")
}
