package internal

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

const frameBuffer = 16

// bubbletea messages for the chat screen's asynchronous events.
type (
	connectedMsg struct {
		transport Transport
		relay     *Relay
		frames    <-chan string
	}
	connectFailedMsg struct{ err error }
	frameMsg         string
	framesClosedMsg  struct{}
)

// connectCmd dials, wires the connection's inbound frames through a fresh
// relay and subscribes this screen to it.
func (model *ChatModel) connectCmd() tea.Cmd {
	dial := model.dial
	return func() tea.Msg {
		conn, err := dial(context.Background())
		if err != nil {
			return connectFailedMsg{err: err}
		}
		relay := NewRelay()
		frames := relay.Subscribe(frameBuffer)
		go relay.Pipe(conn.Inbound())
		return connectedMsg{transport: conn, relay: relay, frames: frames}
	}
}

// waitForFrame reads a single frame from the subscription; it is scheduled
// again after each frame to keep reading.
func waitForFrame(frames <-chan string) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg(frame)
	}
}
