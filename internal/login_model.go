package internal

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AvatarChoices are the seeds offered on the login screen. The first one is
// the default.
var AvatarChoices = []string{"Avery", "Sadie", "George"}

// loginConfirmedMsg hands the confirmed identity to the router.
type loginConfirmedMsg struct {
	identity Identity
}

// LoginModel collects a display name and an avatar choice.
type LoginModel struct {
	textInput   textinput.Model
	avatarIndex int
	avatarBase  string
}

// NewLoginModel builds the login screen. prefill comes from the last
// confirmed login; an unknown seed falls back to the first choice.
func NewLoginModel(prefill Identity, avatarBase string) *LoginModel {
	input := textinput.New()
	input.Placeholder = "Enter your username"
	input.Prompt = "name> "
	input.CharLimit = 0
	input.SetValue(prefill.Name)
	input.Focus()

	model := &LoginModel{textInput: input, avatarBase: avatarBase}
	for idx, seed := range AvatarChoices {
		if seed == prefill.AvatarSeed {
			model.avatarIndex = idx
		}
	}
	return model
}

func (model *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// CanConfirm reports whether the confirm action is enabled. The name is used
// literally, so any non-empty value counts.
func (model *LoginModel) CanConfirm() bool {
	return len(model.textInput.Value()) > 0
}

// AvatarSeed returns the selected seed.
func (model *LoginModel) AvatarSeed() string {
	return AvatarChoices[model.avatarIndex]
}

// Identity is what confirmation would hand to the chat screen.
func (model *LoginModel) Identity() Identity {
	return Identity{Name: model.textInput.Value(), AvatarSeed: model.AvatarSeed()}
}

func (model *LoginModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	keyMessage, ok := message.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		model.textInput, cmd = model.textInput.Update(message)
		return model, cmd
	}
	switch keyMessage.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return model, tea.Quit
	case tea.KeyTab:
		model.avatarIndex = (model.avatarIndex + 1) % len(AvatarChoices)
		return model, nil
	case tea.KeyShiftTab:
		model.avatarIndex = (model.avatarIndex + len(AvatarChoices) - 1) % len(AvatarChoices)
		return model, nil
	case tea.KeyEnter:
		if !model.CanConfirm() {
			return model, nil
		}
		identity := model.Identity()
		return model, func() tea.Msg { return loginConfirmedMsg{identity: identity} }
	}
	var cmd tea.Cmd
	model.textInput, cmd = model.textInput.Update(keyMessage)
	return model, cmd
}

func (model *LoginModel) View() string {
	title := appTitleStyle.Render("Welcome to SmileChat!")
	subtitle := subtitleStyle.Render("Connect with friends and colleagues in this simple chat app")

	choices := make([]string, 0, len(AvatarChoices))
	for idx, seed := range AvatarChoices {
		style := choiceStyle
		if idx == model.avatarIndex {
			style = choiceActiveStyle
		}
		choices = append(choices, style.Render(seed))
	}
	avatarRow := lipgloss.JoinHorizontal(lipgloss.Top, joinWithSpaces(choices)...)
	preview := avatarURLStyle.Render(AvatarURL(model.avatarBase, model.AvatarSeed()))

	button := buttonStyle.Render("START CHATTING!")
	if !model.CanConfirm() {
		button = buttonDisabled.Render("START CHATTING!")
	}

	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		"Avatar",
		avatarRow,
		preview,
		"",
		inputBoxStyle.Render(model.textInput.View()),
		button,
	))
	hint := hintStyle.Render("Tab/Shift+Tab pick avatar • Enter start • Esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, card, hint)
}

func joinWithSpaces(items []string) []string {
	joined := make([]string, 0, len(items)*2)
	for idx, item := range items {
		if idx > 0 {
			joined = append(joined, " ")
		}
		joined = append(joined, item)
	}
	return joined
}
