package internal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

type screen int

const (
	screenLogin screen = iota
	screenChat
)

// AppModel routes between the login screen and the chat screen. Confirming
// the login builds a chat screen from the confirmed identity.
type AppModel struct {
	screen   screen
	login    *LoginModel
	chat     *ChatModel
	chatOpts ChatOptions
	onLogin  func(Identity)
	lastSize *tea.WindowSizeMsg
	err      error
}

// NewAppModel starts on the login screen. onLogin, when set, is called with
// each confirmed identity before the chat screen mounts.
func NewAppModel(login *LoginModel, chatOpts ChatOptions, onLogin func(Identity)) *AppModel {
	return &AppModel{
		screen:   screenLogin,
		login:    login,
		chatOpts: chatOpts,
		onLogin:  onLogin,
	}
}

// Err returns the error that stopped the program, if any.
func (model *AppModel) Err() error {
	return model.err
}

// Chat returns the mounted chat screen, or nil before login.
func (model *AppModel) Chat() *ChatModel {
	return model.chat
}

func (model *AppModel) Init() tea.Cmd {
	return model.login.Init()
}

func (model *AppModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typedMessage := message.(type) {
	case tea.WindowSizeMsg:
		size := typedMessage
		model.lastSize = &size
	case loginConfirmedMsg:
		return model.mountChat(typedMessage.identity)
	}

	var cmd tea.Cmd
	switch model.screen {
	case screenChat:
		_, cmd = model.chat.Update(message)
	default:
		_, cmd = model.login.Update(message)
	}
	return model, cmd
}

func (model *AppModel) mountChat(identity Identity) (tea.Model, tea.Cmd) {
	chat, err := NewChatModel(identity, model.chatOpts)
	if err != nil {
		log.Error().Err(err).Msg("mount chat screen")
		model.err = err
		return model, tea.Quit
	}
	if model.onLogin != nil {
		model.onLogin(identity)
	}
	if model.lastSize != nil {
		chat.setSize(model.lastSize.Width, model.lastSize.Height)
	}
	model.chat = chat
	model.screen = screenChat
	log.Info().Str("screen_id", chat.screenID).Msg("chat screen mounted")
	return model, chat.Init()
}

func (model *AppModel) View() string {
	if model.screen == screenChat {
		return model.chat.View()
	}
	return model.login.View()
}

// Close releases the chat screen's connection, if one was mounted.
func (model *AppModel) Close() {
	if model.chat != nil {
		model.chat.Close()
	}
}
