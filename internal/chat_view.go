package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"smilechat/internal/wire"
)

func (model *ChatModel) View() string {
	roster := model.renderRoster()

	sections := []string{model.renderHeader(), model.renderStatus(), model.viewport.View()}
	if model.emojiOpen {
		sections = append(sections, model.renderEmojiPanel())
	}
	sections = append(sections,
		inputBoxStyle.Render("😊 "+model.textInput.View()),
		hintStyle.Render("Enter send • Ctrl+E emoji • F1-F4 or /bg <name> background • PgUp/PgDn scroll • Esc quit"),
	)
	chat := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return lipgloss.JoinHorizontal(lipgloss.Top, roster, chat)
}

func (model *ChatModel) renderRoster() string {
	lines := []string{rosterTitleStyle.Render("Users")}
	for _, profile := range model.profiles {
		lines = append(lines, rosterNameStyle.Render(profile.Name), onlineStyle.Render("Online"), "")
	}
	style := rosterStyle.Copy().Width(rosterWidth)
	if model.height > 0 {
		style = style.Height(model.height)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (model *ChatModel) renderHeader() string {
	swatches := make([]string, 0, len(backgroundChoices))
	for idx, name := range backgroundChoices {
		swatch := lipgloss.NewStyle().Background(backgroundPalette[name]).Render("  ")
		if name == model.background {
			swatch = lipgloss.NewStyle().Background(backgroundPalette[name]).Render("◆ ")
		}
		swatches = append(swatches, fmt.Sprintf("F%d ", idx+1)+swatch)
	}
	segments := []string{"💬 Chat!", "User " + model.identity.Name, strings.Join(swatches, " ")}
	return chatHeaderStyle.Render(strings.Join(segments, dividerStyle))
}

func (model *ChatModel) renderStatus() string {
	snap := model.stats.Snapshot()
	counters := fmt.Sprintf(" • sent %d • received %d • dropped %d • failed %d", snap.Sent, snap.Received, snap.Dropped, snap.SendFailures)
	switch {
	case model.status == statusDisconnected && model.connErr != nil:
		return errorStyle.Render("Disconnected: "+model.connErr.Error()) + statusStyle.Render(counters)
	case model.status == statusDisconnected:
		return errorStyle.Render("Disconnected") + statusStyle.Render(counters)
	case model.status == statusConnected:
		return connectedStyle.Render("Connected") + statusStyle.Render(counters)
	default:
		return connectingStyle.Render("Connecting…")
	}
}

func (model *ChatModel) renderEmojiPanel() string {
	cells := make([]string, 0, len(Emojis))
	for idx, emoji := range Emojis {
		cells = append(cells, emojiKeyStyle.Render(fmt.Sprintf("%d", idx+1))+" "+emoji)
	}
	return emojiPanelStyle.Render(strings.Join(cells, "  "))
}

// refreshViewport re-renders the message list into the viewport and keeps it
// scrolled to the newest message.
func (model *ChatModel) refreshViewport() {
	var lines []string
	for _, chat := range model.messages {
		lines = append(lines, model.renderChatMessage(chat))
	}
	if len(lines) == 0 {
		lines = append(lines, systemMessageStyle.Render("No messages yet. Say hi and start the conversation."))
	}
	pane := lipgloss.NewStyle().Width(model.viewport.Width)
	if color, ok := backgroundPalette[model.background]; ok {
		pane = pane.Background(color).Foreground(lipgloss.Color("16"))
	}
	model.viewport.SetContent(pane.Render(strings.Join(lines, "\n\n")))
	model.viewport.GotoBottom()
}

func (model *ChatModel) renderChatMessage(chat wire.Chat) string {
	profile := findProfile(model.profiles, model.avatarBase, chat.From)

	nameStyle := usernameStyle.Copy().Foreground(colorForUser(profile.Name))
	if profile.Name == model.identity.Name {
		nameStyle = activeUserStyle
	}
	name := nameStyle.Render(profile.Name)

	var body string
	if chat.IsImage() {
		body = imageStyle.Render("[gif] " + chat.Message)
	} else {
		body = messageBodyStyle.Render(strings.ReplaceAll(chat.Message, "\n", "\n   "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, name, "  "+body)
}
