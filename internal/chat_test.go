package internal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"smilechat/internal/transport"
	"smilechat/internal/wire"
)

type fakeTransport struct {
	mu        sync.Mutex
	sent      []string
	sendErr   error
	inbound   chan string
	closeOnce sync.Once
	closed    bool
	err       error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{inbound: make(chan string, 8)}
}

func (f *fakeTransport) Send(payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeTransport) Inbound() <-chan string {
	return f.inbound
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.inbound)
	})
	return nil
}

func (f *fakeTransport) Err() error {
	return f.err
}

func (f *fakeTransport) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func containsText(view, text string) bool {
	return strings.Contains(view, text)
}

// mountChat builds a chat screen for name and runs its connect step against
// a fake transport.
func mountChat(t *testing.T, name string) (*ChatModel, *fakeTransport) {
	t.Helper()
	fake := newFakeTransport()
	model, err := NewChatModel(Identity{Name: name, AvatarSeed: "Avery"}, ChatOptions{
		Dial: func(context.Context) (Transport, error) { return fake, nil },
	})
	if err != nil {
		t.Fatalf("NewChatModel: %v", err)
	}
	t.Cleanup(model.Close)

	connected := model.connectCmd()()
	if _, ok := connected.(connectedMsg); !ok {
		t.Fatalf("expected connectedMsg, got %T", connected)
	}
	model.Update(connected)
	return model, fake
}

func usersFrame(t *testing.T, names ...string) frameMsg {
	t.Helper()
	encoded, err := wire.Encode(wire.Users{Names: names})
	if err != nil {
		t.Fatalf("encode users: %v", err)
	}
	return frameMsg(encoded)
}

func messageFrame(t *testing.T, from, text string) frameMsg {
	t.Helper()
	message, err := wire.NewMessage(wire.Chat{From: from, Message: text})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	encoded, err := wire.Encode(message)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}
	return frameMsg(encoded)
}

func TestChatMountSendsRegister(t *testing.T) {
	model, fake := mountChat(t, "bob")

	sent := fake.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one frame on mount, got %d", len(sent))
	}
	if sent[0] != `{"messageType":"register","data":"bob"}` {
		t.Fatalf("unexpected register frame %s", sent[0])
	}
	if len(model.Roster()) != 0 || len(model.Messages()) != 0 {
		t.Fatalf("expected empty state on mount")
	}
	if model.Background() != "white" {
		t.Fatalf("expected white background, got %q", model.Background())
	}
}

func TestChatUsersAndMessagesKeepOrder(t *testing.T) {
	model, _ := mountChat(t, "bob")

	model.Update(usersFrame(t, "ann", "bob"))
	model.Update(messageFrame(t, "ann", "one"))
	model.Update(usersFrame(t, "bob", "carl", "bob"))
	model.Update(messageFrame(t, "carl", "two"))
	model.Update(messageFrame(t, "bob", "https://media.example/dance.gif"))

	roster := model.Roster()
	if len(roster) != 3 || roster[0].Name != "bob" || roster[1].Name != "carl" || roster[2].Name != "bob" {
		t.Fatalf("roster should be replaced by the latest frame, got %+v", roster)
	}

	messages := model.Messages()
	want := []string{"one", "two", "https://media.example/dance.gif"}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(messages))
	}
	for idx, text := range want {
		if messages[idx].Message != text {
			t.Fatalf("message %d: expected %q, got %q", idx, text, messages[idx].Message)
		}
	}
	if !messages[2].IsImage() {
		t.Fatalf("expected gif to render as an image")
	}
	if !containsText(model.View(), "[gif] https://media.example/dance.gif") {
		t.Fatalf("expected image marker in view")
	}
}

func TestChatIgnoresRegisterAndDropsMalformed(t *testing.T) {
	stats := transport.NewStats()
	fake := newFakeTransport()
	model, err := NewChatModel(Identity{Name: "bob"}, ChatOptions{
		Dial:  func(context.Context) (Transport, error) { return fake, nil },
		Stats: stats,
	})
	if err != nil {
		t.Fatalf("NewChatModel: %v", err)
	}
	defer model.Close()
	model.Update(model.connectCmd()())

	model.Update(frameMsg(`{"messageType":"register","data":"eve"}`))
	model.Update(frameMsg(`not json`))
	model.Update(frameMsg(`{"messageType":"typing","data":"x"}`))
	model.Update(frameMsg(`{"messageType":"message","data":"{\"from\":\"ann\"}"}`))

	if len(model.Roster()) != 0 || len(model.Messages()) != 0 {
		t.Fatalf("state should be unchanged")
	}
	if got := stats.Snapshot().Dropped; got != 3 {
		t.Fatalf("expected 3 dropped frames, got %d", got)
	}

	model.Update(messageFrame(t, "ann", "still alive"))
	if len(model.Messages()) != 1 {
		t.Fatalf("screen should keep running after malformed frames")
	}
}

func TestChatSubmitSendsAndClears(t *testing.T) {
	model, fake := mountChat(t, "bob")

	typeText(model, "hi there")
	model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	sent := fake.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected register and message frames, got %d", len(sent))
	}
	if sent[1] != `{"messageType":"message","data":"hi there"}` {
		t.Fatalf("unexpected message frame %s", sent[1])
	}
	if model.InputValue() != "" {
		t.Fatalf("input should be cleared, got %q", model.InputValue())
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sent = fake.Sent()
	if len(sent) != 3 || sent[2] != `{"messageType":"message","data":""}` {
		t.Fatalf("empty submit should still send, got %v", sent)
	}
}

func TestChatSubmitFailureIsNotFatal(t *testing.T) {
	model, fake := mountChat(t, "bob")
	fake.sendErr = transport.ErrBackpressure

	typeText(model, "lost")
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("send failure should not produce a command")
	}
	if model.InputValue() != "" {
		t.Fatalf("input should be cleared even when the send fails")
	}
}

func TestChatSubmitWithoutConnection(t *testing.T) {
	model, err := NewChatModel(Identity{Name: "bob"}, ChatOptions{
		Dial: func(context.Context) (Transport, error) { return nil, errors.New("refused") },
	})
	if err != nil {
		t.Fatalf("NewChatModel: %v", err)
	}
	defer model.Close()

	failed := model.connectCmd()()
	if _, ok := failed.(connectFailedMsg); !ok {
		t.Fatalf("expected connectFailedMsg, got %T", failed)
	}
	model.Update(failed)
	if !containsText(model.View(), "Disconnected: refused") {
		t.Fatalf("expected disconnected status in view")
	}

	typeText(model, "hello")
	model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if model.InputValue() != "hello" {
		t.Fatalf("input should be kept with no connection, got %q", model.InputValue())
	}
}

func TestChatEmojiPicker(t *testing.T) {
	model, _ := mountChat(t, "bob")

	typeText(model, "hello")
	model.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if !model.EmojiOpen() {
		t.Fatalf("expected emoji panel to open")
	}
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("6")})
	if got := model.InputValue(); got != "hello 🔥" {
		t.Fatalf("expected %q, got %q", "hello 🔥", got)
	}
	if model.EmojiOpen() {
		t.Fatalf("selecting an emoji should close the panel")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("6")})
	if got := model.InputValue(); got != "hello 🔥6" {
		t.Fatalf("digits should be typed with the panel closed, got %q", got)
	}

	model.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	model.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if model.EmojiOpen() {
		t.Fatalf("second toggle should close the panel")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Fatalf("esc with the panel open should only close it")
	}
	if model.EmojiOpen() {
		t.Fatalf("esc should close the panel")
	}
}

func TestChatBackground(t *testing.T) {
	model, fake := mountChat(t, "bob")

	model.Update(tea.KeyMsg{Type: tea.KeyF3})
	if model.Background() != "green" {
		t.Fatalf("expected green, got %q", model.Background())
	}
	model.Update(tea.KeyMsg{Type: tea.KeyF4})
	if model.Background() != "purple" {
		t.Fatalf("expected purple, got %q", model.Background())
	}

	typeText(model, "/bg tomato")
	model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if model.Background() != "tomato" {
		t.Fatalf("any selector should be accepted, got %q", model.Background())
	}
	if model.InputValue() != "" {
		t.Fatalf("command should clear the input")
	}
	if len(fake.Sent()) != 1 {
		t.Fatalf("local commands must not reach the server")
	}
}

func TestChatQuitCommand(t *testing.T) {
	model, fake := mountChat(t, "bob")

	typeText(model, "/quit")
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	fake.mu.Lock()
	closed := fake.closed
	fake.mu.Unlock()
	if !closed {
		t.Fatalf("transport should be closed on quit")
	}
}

func TestChatFramesFromTransport(t *testing.T) {
	model, fake := mountChat(t, "bob")

	encoded, err := wire.Encode(wire.Users{Names: []string{"ann"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	fake.inbound <- encoded

	msg := waitForFrame(model.frames)()
	if _, ok := msg.(frameMsg); !ok {
		t.Fatalf("expected frameMsg, got %T", msg)
	}
	model.Update(msg)
	if len(model.Roster()) != 1 {
		t.Fatalf("expected roster from transport frame")
	}

	fake.err = errors.New("server went away")
	_ = fake.Close()

	done := make(chan tea.Msg, 1)
	go func() { done <- waitForFrame(model.frames)() }()
	select {
	case msg = <-done:
	case <-time.After(time.Second):
		t.Fatalf("subscription did not close with the transport")
	}
	if _, ok := msg.(framesClosedMsg); !ok {
		t.Fatalf("expected framesClosedMsg, got %T", msg)
	}
	model.Update(msg)
	if !containsText(model.View(), "Disconnected: server went away") {
		t.Fatalf("expected disconnect reason in view")
	}
}

func TestNewChatModelRequiresIdentity(t *testing.T) {
	_, err := NewChatModel(Identity{}, ChatOptions{
		Dial: func(context.Context) (Transport, error) { return newFakeTransport(), nil },
	})
	if !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestChatScreensAreIndependent(t *testing.T) {
	first, _ := mountChat(t, "bob")
	first.Update(messageFrame(t, "ann", "hello"))

	second, _ := mountChat(t, "bob")
	if len(second.Messages()) != 0 || len(second.Roster()) != 0 {
		t.Fatalf("a new mount should start with empty state")
	}
	if first.screenID == second.screenID {
		t.Fatalf("each mount should get its own screen id")
	}
}
