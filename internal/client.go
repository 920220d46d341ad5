package internal

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"smilechat/internal/transport"
)

// ClientOptions is everything RunClient needs; the app package fills it from
// configuration.
type ClientOptions struct {
	Transport     transport.Options
	AvatarBaseURL string
	Prefill       Identity
	OnLogin       func(Identity)
}

// NewDialFunc returns a DialFunc that opens a transport.Channel with opts.
func NewDialFunc(opts transport.Options) DialFunc {
	return func(ctx context.Context) (Transport, error) {
		channel, err := transport.Dial(ctx, opts)
		if err != nil {
			return nil, err
		}
		return channel, nil
	}
}

// RunClient launches the bubbletea program on the login screen.
func RunClient(opts ClientOptions) error {
	if opts.Transport.Stats == nil {
		opts.Transport.Stats = transport.NewStats()
	}
	chatOpts := ChatOptions{
		Dial:          NewDialFunc(opts.Transport),
		Stats:         opts.Transport.Stats,
		AvatarBaseURL: opts.AvatarBaseURL,
	}
	model := NewAppModel(NewLoginModel(opts.Prefill, opts.AvatarBaseURL), chatOpts, opts.OnLogin)
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return model.Err()
}
