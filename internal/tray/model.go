package tray

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"watchhub/internal/session"
	"watchhub/pkg/models"
)

// target is one activatable row: a link chunk or an anime card.
type target struct {
	kind  string // "link" or "anime"
	label string
	url   string
}

type (
	stateMsg        session.State
	eventMsg        session.Event
	confirmationMsg models.LinkConfirmation
	openedMsg       struct{ url string }
	errMsg          struct{ err error }
)

// Model is the tray: it renders the session state and forwards every
// user intent to the api-server, which owns the state.
type Model struct {
	client *Client
	styles *Styles

	state   session.State
	targets []target
	cursor  int

	input     textinput.Model
	prompting bool
	spin      spinner.Model

	status  string
	width   int
	height  int
	ready   bool
	openCmd string
	startID int
}

func NewModel(client *Client, cfg Config, startID int) Model {
	ti := textinput.New()
	ti.Placeholder = "anilist id"
	ti.CharLimit = 8
	ti.Width = 12

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:  client,
		styles:  DefaultStyles(),
		state:   session.State{Phase: session.PhaseIdle},
		input:   ti,
		spin:    sp,
		width:   80,
		height:  24,
		openCmd: cfg.OpenCommand,
		startID: startID,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.fetchStateCmd()}
	if m.startID > 0 {
		cmds = append(cmds, m.lookupCmd(m.startID))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case stateMsg:
		m.applyState(session.State(msg))
		return m, nil

	case eventMsg:
		m.applyState(msg.State)
		return m, nil

	case confirmationMsg:
		conf := models.LinkConfirmation(msg)
		m.state.Confirmation = &conf
		return m, nil

	case openedMsg:
		m.status = "opened " + msg.url
		return m, nil

	case errMsg:
		m.status = m.styles.Error.Render(msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.prompting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompting {
		switch msg.String() {
		case "esc":
			m.prompting = false
			m.input.Blur()
			return m, nil
		case "enter":
			id, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
			m.prompting = false
			m.input.Blur()
			m.input.SetValue("")
			if err != nil || id <= 0 {
				m.status = m.styles.Error.Render("enter a numeric anilist id")
				return m, nil
			}
			return m, m.lookupCmd(id)
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	// a pending confirmation captures the keyboard until resolved
	if conf := m.state.Confirmation; conf != nil {
		switch msg.String() {
		case "y", "enter":
			return m, m.confirmCmd(conf.ID)
		case "n":
			return m, m.cancelCmd(conf.ID)
		case "esc":
			return m, m.dismissCmd()
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "l":
		m.prompting = true
		m.status = ""
		return m, m.input.Focus()

	case "r":
		if m.state.MediaID > 0 {
			return m, m.lookupCmd(m.state.MediaID)
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.targets)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.cursor < 0 || m.cursor >= len(m.targets) {
			return m, nil
		}
		t := m.targets[m.cursor]
		switch t.kind {
		case "link":
			// external links go through the confirmation flow
			return m, m.requestLinkCmd(t.url)
		case "anime":
			// in-app navigation opens directly
			return m, m.openCmdFor(t.url)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) applyState(st session.State) {
	m.state = st
	m.targets = collectTargets(st)
	if m.cursor >= len(m.targets) {
		m.cursor = len(m.targets) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// collectTargets flattens the display list into activatable rows, in
// display order: every link chunk and every anime card.
func collectTargets(st session.State) []target {
	var ts []target
	for _, it := range st.Items {
		switch it.Kind {
		case models.ItemTextBlock:
			if it.Block == nil {
				continue
			}
			for _, ch := range it.Block.Chunks {
				if ch.Kind == models.ChunkLink {
					ts = append(ts, target{kind: "link", label: ch.Content, url: ch.Href})
				}
			}
		case models.ItemAnime:
			if it.Media == nil {
				continue
			}
			ts = append(ts, target{kind: "anime", label: it.Media.Title, url: it.Media.SiteURL})
		}
	}
	return ts
}

func (m Model) fetchStateCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.client.Session(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return stateMsg(st)
	}
}

func (m Model) lookupCmd(id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		st, err := m.client.Lookup(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return stateMsg(st)
	}
}

func (m Model) requestLinkCmd(url string) tea.Cmd {
	return func() tea.Msg {
		conf, err := m.client.RequestLink(context.Background(), url)
		if err != nil {
			return errMsg{err}
		}
		return confirmationMsg(conf)
	}
}

func (m Model) confirmCmd(id string) tea.Cmd {
	return func() tea.Msg {
		url, err := m.client.ConfirmLink(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		if err := OpenBrowser(m.openCmd, url); err != nil {
			return errMsg{err}
		}
		return openedMsg{url: url}
	}
}

func (m Model) cancelCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.CancelLink(context.Background(), id); err != nil {
			return errMsg{err}
		}
		st, err := m.client.Session(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return stateMsg(st)
	}
}

func (m Model) dismissCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Dismiss(context.Background()); err != nil {
			return errMsg{err}
		}
		st, err := m.client.Session(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return stateMsg(st)
	}
}

func (m Model) openCmdFor(url string) tea.Cmd {
	return func() tea.Msg {
		if url == "" {
			return errMsg{err: fmt.Errorf("no page to open")}
		}
		if err := OpenBrowser(m.openCmd, url); err != nil {
			return errMsg{err}
		}
		return openedMsg{url: url}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("watchhub"))
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderItems())
	b.WriteString("\n")

	if m.prompting {
		b.WriteString("\nLook up anilist id: " + m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.styles.Status.Render(m.status) + "\n")
	}

	if conf := m.state.Confirmation; conf != nil {
		modal := m.styles.Modal.Render(conf.Message + "\n\n[y] open   [n] cancel   [esc] dismiss")
		b.WriteString("\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, modal) + "\n")
	}

	b.WriteString("\n" + m.styles.Help.Render("j/k move · enter open · l lookup · r reload · q quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	switch m.state.Phase {
	case session.PhaseLoading:
		return m.spin.View() + " looking up watch order..."
	case session.PhaseError:
		return m.styles.Error.Render(m.state.Message)
	case session.PhaseReady:
		if !m.state.Found {
			return m.styles.Subtitle.Render(fmt.Sprintf("anime %d", m.state.MediaID))
		}
		return m.styles.Subtitle.Render(m.state.Series + " / " + m.state.Order)
	default:
		return m.styles.Subtitle.Render("press l to look up an anime")
	}
}

func (m Model) renderItems() string {
	if len(m.state.Items) == 0 {
		return m.styles.Status.Render("(nothing to show)")
	}

	var rows []string
	step := 0
	targetIdx := 0
	for _, it := range m.state.Items {
		switch it.Kind {
		case models.ItemTextBlock:
			if it.Block == nil {
				continue
			}
			rows = append(rows, m.renderBlock(it.Block, &targetIdx))
		case models.ItemAnime:
			if it.Media == nil {
				continue
			}
			step++
			rows = append(rows, m.renderCard(step, it.Media, targetIdx == m.cursor))
			targetIdx++
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderBlock(block *models.Block, targetIdx *int) string {
	var b strings.Builder
	for _, ch := range block.Chunks {
		if ch.Kind == models.ChunkLink {
			style := m.styles.Link
			if *targetIdx == m.cursor {
				style = m.styles.Focused
			}
			b.WriteString(style.Render(ch.Content))
			*targetIdx++
			continue
		}
		b.WriteString(ch.Content)
	}
	return m.styles.Text.Width(max(20, m.width-4)).Render(b.String())
}

func (m Model) renderCard(step int, media *models.Media, focused bool) string {
	meta := media.Format
	if media.SeasonYear > 0 {
		if meta != "" {
			meta += " · "
		}
		meta += strconv.Itoa(media.SeasonYear)
	}
	if media.ListStatus != "" {
		meta += "  [" + media.ListStatus + "]"
	}

	line := fmt.Sprintf("%d. %s", step, media.Title)
	if meta != "" {
		line += "  (" + meta + ")"
	}
	if focused {
		return m.styles.Focused.Render("▸ " + line)
	}
	return m.styles.Card.Render(line)
}

// FeedEvents keeps the program supplied with session events, redialing
// with a short pause whenever the feed drops.
func FeedEvents(client *Client, p *tea.Program) {
	for {
		_ = client.Events(func(ev session.Event) {
			p.Send(eventMsg(ev))
		})
		time.Sleep(time.Second)
	}
}
