package internal

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smilechat/internal/logx"
	"smilechat/internal/transport"
	"smilechat/internal/wire"
)

// Transport is the connection a chat screen sends and receives frames on.
type Transport interface {
	Send(payload string) error
	Inbound() <-chan string
	Close() error
	Err() error
}

// DialFunc opens the chat screen's connection.
type DialFunc func(ctx context.Context) (Transport, error)

// ChatOptions holds the collaborators a chat screen is built with.
type ChatOptions struct {
	Dial          DialFunc
	Stats         *transport.Stats
	AvatarBaseURL string
}

// Emojis offered by the picker, selected with keys 1-9.
var Emojis = []string{"😊", "😂", "❤️", "👍", "😍", "🔥", "👋", "🎉", "👏"}

const defaultBackground = "white"

var errNotConnected = errors.New("not connected")

type connStatus int

const (
	statusConnecting connStatus = iota
	statusConnected
	statusDisconnected
)

// ChatModel renders the roster and message list and turns user actions into
// outbound frames. All of its state is local and starts empty on every mount.
type ChatModel struct {
	identity   Identity
	screenID   string
	logger     zerolog.Logger
	dial       DialFunc
	stats      *transport.Stats
	avatarBase string

	transport Transport
	relay     *Relay
	frames    <-chan string

	textInput textinput.Model
	viewport  viewport.Model
	width     int
	height    int

	profiles   []Profile
	messages   []wire.Chat
	emojiOpen  bool
	background string
	status     connStatus
	connErr    error
	closed     bool
}

// NewChatModel builds a chat screen for identity. An empty identity means
// the login screen was skipped, which is a programming error reported as
// ErrNoIdentity.
func NewChatModel(identity Identity, opts ChatOptions) (*ChatModel, error) {
	if identity.Name == "" {
		return nil, ErrNoIdentity
	}
	if opts.Dial == nil {
		return nil, errors.New("chat screen requires a dial function")
	}
	stats := opts.Stats
	if stats == nil {
		stats = transport.NewStats()
	}

	input := textinput.New()
	input.Placeholder = "Message"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	screenID := uuid.NewString()
	model := &ChatModel{
		identity:   identity,
		screenID:   screenID,
		logger:     logx.With("screen_id", screenID),
		dial:       opts.Dial,
		stats:      stats,
		avatarBase: opts.AvatarBaseURL,
		textInput:  input,
		viewport:   viewport.New(80, 16),
		messages:   make([]wire.Chat, 0, 64),
		background: defaultBackground,
	}
	model.refreshViewport()
	return model, nil
}

// Init dials the server. Register is sent once the connection is up.
func (model *ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, model.connectCmd())
}

// Messages returns the received chat messages in arrival order.
func (model *ChatModel) Messages() []wire.Chat {
	return model.messages
}

// Roster returns the current roster.
func (model *ChatModel) Roster() []Profile {
	return model.profiles
}

// InputValue returns the current text in the message input.
func (model *ChatModel) InputValue() string {
	return model.textInput.Value()
}

// EmojiOpen reports whether the emoji picker is shown.
func (model *ChatModel) EmojiOpen() bool {
	return model.emojiOpen
}

// Background returns the current background selector.
func (model *ChatModel) Background() string {
	return model.background
}

// applyFrame decodes one inbound frame and updates state. It reports whether
// anything visible changed. Malformed frames are logged and dropped.
func (model *ChatModel) applyFrame(text string) bool {
	envelope, err := wire.Decode(text)
	if err != nil {
		model.stats.IncDropped()
		model.logger.Warn().Err(err).Str("frame", text).Msg("dropping malformed frame")
		return false
	}
	switch typed := envelope.(type) {
	case wire.Users:
		model.profiles = ProfilesFromRoster(model.avatarBase, typed.Names)
	case wire.Message:
		model.messages = append(model.messages, typed.Chat)
	case wire.Register:
		// the server never sends this; nothing to do
		return false
	default:
		return false
	}
	model.refreshViewport()
	return true
}

// submit sends the input text as a Message frame and clears the input. With
// no connection the input is left untouched.
func (model *ChatModel) submit() {
	if model.transport == nil {
		return
	}
	_ = model.send(wire.Text(model.textInput.Value()))
	model.textInput.SetValue("")
}

func (model *ChatModel) toggleEmojiPanel() {
	model.emojiOpen = !model.emojiOpen
}

func (model *ChatModel) selectEmoji(emoji string) {
	model.textInput.SetValue(model.textInput.Value() + " " + emoji)
	model.textInput.CursorEnd()
	model.emojiOpen = false
}

// changeBackground accepts any selector; only the palette entries are colored.
func (model *ChatModel) changeBackground(selector string) {
	model.background = selector
	model.refreshViewport()
}

// send encodes and queues a frame. Failures are logged and returned; callers
// carry on either way.
func (model *ChatModel) send(envelope wire.Envelope) error {
	if model.transport == nil {
		model.stats.IncSendFailure()
		model.logger.Warn().Str("type", string(envelope.Type())).Msg("send skipped: not connected")
		return errNotConnected
	}
	payload, err := wire.Encode(envelope)
	if err != nil {
		model.logger.Error().Err(err).Msg("encode outbound frame")
		return err
	}
	if err := model.transport.Send(payload); err != nil {
		model.logger.Warn().Err(err).Str("type", string(envelope.Type())).Msg("error sending to channel")
		return err
	}
	model.logger.Debug().Str("type", string(envelope.Type())).Msg("message sent successfully")
	return nil
}

// Close tears down the relay and the connection. It is safe to call more
// than once.
func (model *ChatModel) Close() {
	if model.closed {
		return
	}
	model.closed = true
	if model.relay != nil {
		model.relay.Close()
	}
	if model.transport != nil {
		if err := model.transport.Close(); err != nil {
			model.logger.Warn().Err(err).Msg("close transport")
		}
	}
	snap := model.stats.Snapshot()
	model.logger.Info().
		Uint64("sent", snap.Sent).
		Uint64("received", snap.Received).
		Uint64("dropped", snap.Dropped).
		Uint64("send_failures", snap.SendFailures).
		Msg("chat screen closed")
}
