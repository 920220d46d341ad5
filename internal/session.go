package internal

import "errors"

// ErrNoIdentity is returned when a chat screen is built without a logged-in
// identity. The login screen is the only way to produce one.
var ErrNoIdentity = errors.New("chat screen requires a logged-in identity")

// Identity is produced by the login screen on confirmation and handed to the
// chat screen by value.
type Identity struct {
	Name       string
	AvatarSeed string
}
