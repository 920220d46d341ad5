package internal

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestAppModelLoginToChat(t *testing.T) {
	fake := newFakeTransport()
	var remembered []Identity
	app := NewAppModel(NewLoginModel(Identity{}, ""), ChatOptions{
		Dial: func(context.Context) (Transport, error) { return fake, nil },
	}, func(identity Identity) {
		remembered = append(remembered, identity)
	})
	defer app.Close()

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	typeText(app, "dana")
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected confirm command")
	}
	_, cmd = app.Update(cmd())
	if cmd == nil {
		t.Fatalf("expected chat init command")
	}

	chat := app.Chat()
	if chat == nil {
		t.Fatalf("expected chat screen after login")
	}
	if chat.identity != (Identity{Name: "dana", AvatarSeed: "Sadie"}) {
		t.Fatalf("unexpected identity %+v", chat.identity)
	}
	if chat.width != 120 || chat.height != 40 {
		t.Fatalf("window size should carry over, got %dx%d", chat.width, chat.height)
	}
	if len(remembered) != 1 || remembered[0].Name != "dana" {
		t.Fatalf("expected login to be remembered, got %+v", remembered)
	}
	if !containsText(app.View(), "User dana") {
		t.Fatalf("expected chat view after login")
	}
}

func TestAppModelRejectsEmptyIdentity(t *testing.T) {
	app := NewAppModel(NewLoginModel(Identity{}, ""), ChatOptions{
		Dial: func(context.Context) (Transport, error) { return newFakeTransport(), nil },
	}, nil)

	_, cmd := app.Update(loginConfirmedMsg{})
	if cmd == nil {
		t.Fatalf("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if !errors.Is(app.Err(), ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", app.Err())
	}
	if app.Chat() != nil {
		t.Fatalf("chat screen must not mount without an identity")
	}
}
