package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const PlaceHolderText = "What do you do?"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	api          *apiClient
	gameID       uuid.UUID
	playerState  *state.PlayerState
	transcript   []chat.Message
	complete     bool
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	notice       string
	loading      bool

	showCartridgeModal bool
	cartridges         []string
	selectedCartridge  int
	loadingCartridges  bool

	showQuitModal bool

	progressTick int
}

type commandResponseMsg struct {
	response *chat.CommandResponse
	err      error
}

type gameStateMsg struct {
	playerState *state.PlayerState
	err         error
}

type cartridgesLoadedMsg struct {
	cartridges []string
	err        error
}

type gameCreatedMsg struct {
	game *createGameResponse
	err  error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // amber
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // off white

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("214")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, api *apiClient) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 500
	ta.SetWidth(50)
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:             cfg,
		api:                api,
		textarea:           ta,
		chatViewport:       chatVp,
		metaViewport:       metaVp,
		showCartridgeModal: true,
		loadingCartridges:  true,
	}
}

// formatMessage renders one transcript line wrapped to width.
func formatMessage(msg chat.Message, width int) string {
	switch msg.Speaker {
	case chat.SpeakerPlayer:
		return userStyle.Render("> ") + wordwrap.String(msg.Text, width-2)
	case chat.SpeakerSystem:
		return systemStyle.Render(wordwrap.String(msg.Text, width))
	default:
		return narratorStyle.Render(wordwrap.String(msg.Text, width))
	}
}

func writeMetadata(ps *state.PlayerState) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CASE FILE") + "\n\n")

	content.WriteString("Game ID:\n")
	content.WriteString(ps.GameID.String()[:8] + "...\n\n")

	content.WriteString("Location:\n" + ps.CurrentLocationID + "\n\n")
	if ps.CurrentFocusID != "" {
		content.WriteString("At:\n" + ps.CurrentFocusID + "\n\n")
	}
	if ps.ActiveDeviceID != "" {
		content.WriteString("Holding up:\n" + ps.ActiveDeviceID + "\n\n")
	}
	if ps.ConversationNPCID != "" {
		content.WriteString("Talking to:\n" + ps.ConversationNPCID + "\n\n")
	}

	content.WriteString("Inventory:\n")
	if len(ps.Inventory) == 0 {
		content.WriteString("Empty\n")
	}
	for _, id := range ps.Inventory {
		content.WriteString("• " + id + "\n")
	}
	content.WriteString(fmt.Sprintf("\nTurn: %d\n\n", ps.TurnCount))

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Send\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /flags: Flags\n")
	content.WriteString("• /copy: Copy transcript\n")

	return content.String()
}

// writeChatContent rebuilds the transcript for the current viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("NOIR ENGINE") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, msg := range m.transcript {
		content.WriteString(formatMessage(msg, chatWidth) + "\n\n")
	}
	if m.complete {
		content.WriteString(titleStyle.Render("CHAPTER COMPLETE") + "\n\n")
	}
	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.notice != "" {
		content.WriteString(m.notice + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) resize() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 6
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadCartridges()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showCartridgeModal {
		return m.updateCartridgeModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeChatContent()
		if m.playerState != nil {
			m.metaViewport.SetContent(writeMetadata(m.playerState))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.loading = true
			m.err = nil
			m.notice = ""
			m.progressTick = 0
			m.transcript = append(m.transcript, chat.Message{Speaker: chat.SpeakerPlayer, Text: input})
			m.writeChatContent()
			return m, tea.Batch(m.sendCommand(input), progressTick())
		}

	case commandResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.transcript = append(m.transcript, msg.response.Messages...)
			m.complete = msg.response.Complete
		}
		m.writeChatContent()
		return m, m.refreshGameState()

	case gameStateMsg:
		if msg.err == nil && msg.playerState != nil {
			m.playerState = msg.playerState
			m.metaViewport.SetContent(writeMetadata(m.playerState))
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/help":
		m.notice = titleStyle.Render("Help:") + `
• Type what you do: "search the trash", "go to the safe", "talk to the vagrant"
• hint - Ask for a nudge
• /flags - Show story flags
• /copy - Copy the transcript to the clipboard
• Ctrl+C - Quit`

	case "/flags":
		var b strings.Builder
		b.WriteString(titleStyle.Render("Flags:") + "\n")
		if m.playerState == nil || len(m.playerState.Flags.Keys()) == 0 {
			b.WriteString("No flags are set.")
		} else {
			for _, f := range m.playerState.Flags.Keys() {
				b.WriteString("• " + f + "\n")
			}
		}
		m.notice = b.String()

	case "/copy":
		if err := clipboard.WriteAll(chat.Transcript(m.transcript)); err != nil {
			m.notice = errorStyle.Render("Could not copy: " + err.Error())
		} else {
			m.notice = systemStyle.Render("Transcript copied.")
		}

	default:
		m.notice = systemStyle.Render("Unknown console command. Try /help.")
	}
	m.writeChatContent()
	return m, nil
}

func (m ConsoleUI) sendCommand(message string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.api.sendCommand(m.gameID, message)
		return commandResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	return func() tea.Msg {
		g, err := m.api.getGame(m.gameID)
		if err != nil {
			return gameStateMsg{nil, err}
		}
		return gameStateMsg{g.State, nil}
	}
}

func (m ConsoleUI) loadCartridges() tea.Cmd {
	return func() tea.Msg {
		ids, err := m.api.listCartridges()
		return cartridgesLoadedMsg{ids, err}
	}
}

func (m ConsoleUI) createGame(cartridgeID string) tea.Cmd {
	return func() tea.Msg {
		g, err := m.api.createGame(cartridgeID, m.config.UserID)
		return gameCreatedMsg{g, err}
	}
}

func (m ConsoleUI) updateCartridgeModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case cartridgesLoadedMsg:
		m.loadingCartridges = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.cartridges = msg.cartridges
		}

	case gameCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.gameID = msg.game.GameID
		m.transcript = msg.game.Messages
		m.showCartridgeModal = false
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.ready = true
		m.writeChatContent()
		m.textarea.Focus()
		return m, tea.Batch(textarea.Blink, m.refreshGameState())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.loadingCartridges {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		}
		if m.loadingCartridges || m.loading || m.err != nil {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyUp:
			if m.selectedCartridge > 0 {
				m.selectedCartridge--
			}
		case tea.KeyDown:
			if m.selectedCartridge < len(m.cartridges)-1 {
				m.selectedCartridge++
			}
		case tea.KeyEnter:
			if len(m.cartridges) > 0 {
				m.loading = true
				return m, m.createGame(m.cartridges[m.selectedCartridge])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		}
		switch msg.String() {
		case "y", "Y":
			return m, tea.Quit
		case "n", "N":
			m.showQuitModal = false
			if m.showCartridgeModal {
				return m, nil
			}
			m.textarea.Focus()
			return m, textarea.Blink
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("The case will keep. Leave for now?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCartridgeModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	switch {
	case m.loadingCartridges:
		content.WriteString(modalTitleStyle.Render("Loading Cases..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Pulling the files..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Opening Case..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Rain on the windshield..."))
	case len(m.cartridges) == 0:
		content.WriteString(modalTitleStyle.Render("No Cases"))
		content.WriteString("\n\n")
		content.WriteString("The api has no cartridges loaded. Press Ctrl+C to exit")
	default:
		content.WriteString(modalTitleStyle.Render("Select a Case"))
		content.WriteString("\n\n")
		for i, id := range m.cartridges {
			if i == m.selectedCartridge {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + id))
			} else {
				content.WriteString(modalItemStyle.Render("  " + id))
			}
			content.WriteString("\n")
		}
		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showCartridgeModal {
		return m.renderCartridgeModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	usable = min(max(usable, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
