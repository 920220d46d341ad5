package internal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"smilechat/internal/wire"
)

const rosterWidth = 26

var backgroundKeys = map[tea.KeyType]string{
	tea.KeyF1: "white",
	tea.KeyF2: "blue",
	tea.KeyF3: "green",
	tea.KeyF4: "purple",
}

func (model *ChatModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(typedMessage)

	case tea.WindowSizeMsg:
		model.setSize(typedMessage.Width, typedMessage.Height)
		return model, nil

	case connectedMsg:
		model.transport = typedMessage.transport
		model.relay = typedMessage.relay
		model.frames = typedMessage.frames
		model.status = statusConnected
		model.connErr = nil
		_ = model.send(wire.Register{Name: model.identity.Name})
		return model, waitForFrame(model.frames)

	case connectFailedMsg:
		model.status = statusDisconnected
		model.connErr = typedMessage.err
		model.logger.Warn().Err(typedMessage.err).Msg("connect failed")
		return model, nil

	case frameMsg:
		model.applyFrame(string(typedMessage))
		return model, waitForFrame(model.frames)

	case framesClosedMsg:
		model.status = statusDisconnected
		if model.transport != nil {
			model.connErr = model.transport.Err()
		}
		model.logger.Info().Err(model.connErr).Msg("connection ended")
		return model, nil
	}

	var cmd tea.Cmd
	model.textInput, cmd = model.textInput.Update(message)
	return model, cmd
}

func (model *ChatModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		model.Close()
		return model, tea.Quit
	case tea.KeyEsc:
		if model.emojiOpen {
			model.emojiOpen = false
			return model, nil
		}
		model.Close()
		return model, tea.Quit
	case tea.KeyCtrlE:
		model.toggleEmojiPanel()
		return model, nil
	case tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4:
		model.changeBackground(backgroundKeys[key.Type])
		return model, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		model.viewport, cmd = model.viewport.Update(key)
		return model, cmd
	case tea.KeyEnter:
		if quit := model.runCommand(); quit {
			model.Close()
			return model, tea.Quit
		}
		return model, nil
	}

	if model.emojiOpen && key.Type == tea.KeyRunes && len(key.Runes) == 1 {
		if r := key.Runes[0]; r >= '1' && r <= '9' {
			model.selectEmoji(Emojis[r-'1'])
			return model, nil
		}
	}

	var cmd tea.Cmd
	model.textInput, cmd = model.textInput.Update(key)
	return model, cmd
}

// runCommand handles Enter. Local slash commands never reach the server;
// everything else is submitted as a message. It reports whether to quit.
func (model *ChatModel) runCommand() bool {
	trimmed := strings.TrimSpace(model.textInput.Value())
	lower := strings.ToLower(trimmed)
	switch {
	case lower == "/quit" || lower == "/exit":
		return true
	case lower == "/bg" || strings.HasPrefix(lower, "/bg "):
		model.changeBackground(strings.TrimSpace(trimmed[len("/bg"):]))
		model.textInput.SetValue("")
		return false
	}
	model.submit()
	return false
}

func (model *ChatModel) setSize(width, height int) {
	model.width = width
	model.height = height
	chatWidth := width - rosterWidth - 2
	if chatWidth < 20 {
		chatWidth = 20
	}
	// header, status, input box, hint
	chatHeight := height - 9
	if chatHeight < 3 {
		chatHeight = 3
	}
	model.viewport.Width = chatWidth
	model.viewport.Height = chatHeight
	model.textInput.Width = chatWidth - 6
	model.refreshViewport()
}
