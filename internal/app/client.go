package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	intrnl "smilechat/internal"
	"smilechat/internal/logx"
	"smilechat/internal/storage"
	"smilechat/internal/transport"
)

// RunClient sets up logging and the preferences store, then launches the
// Bubble Tea TUI with the provided configuration.
func RunClient(cfg ClientConfig) error {
	cfg = cfg.withDefaults()
	serverURL, err := NormalizeServerURL(cfg.ServerURL)
	if err != nil {
		return err
	}

	closeLog, err := logx.Init(logx.Options{Level: cfg.LogLevel, Path: cfg.LogPath, Pretty: cfg.LogPretty})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	log.Info().Str("server", serverURL).Str("db", cfg.DBPath).Msg("starting client")

	ctx := context.Background()
	store := openStore(ctx, cfg.DBPath)
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("close store")
			}
		}()
	}

	return intrnl.RunClient(intrnl.ClientOptions{
		Transport: transport.Options{
			URL:              serverURL,
			HandshakeTimeout: cfg.HandshakeTimeout,
			SendRate:         cfg.SendRate,
			SendBurst:        cfg.SendBurst,
		},
		AvatarBaseURL: cfg.AvatarBaseURL,
		Prefill:       loginPrefill(ctx, store, cfg.Username),
		OnLogin:       rememberLogin(ctx, store),
	})
}

// openStore opens and migrates the preferences database. The client runs
// without remembered logins when it cannot.
func openStore(ctx context.Context, path string) *storage.Store {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Warn().Err(err).Msg("create db dir; running without preferences")
		return nil
	}
	store, err := storage.NewStore(path)
	if err != nil {
		log.Warn().Err(err).Msg("open store; running without preferences")
		return nil
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		log.Warn().Err(err).Msg("migrate store; running without preferences")
		return nil
	}
	return store
}

// loginPrefill picks the login screen's initial values. An explicit username
// wins over the remembered one.
func loginPrefill(ctx context.Context, store *storage.Store, username string) intrnl.Identity {
	var prefill intrnl.Identity
	if store != nil {
		defaults, err := store.LoadLoginDefaults(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("load login defaults")
		} else {
			prefill = intrnl.Identity{Name: defaults.Username, AvatarSeed: defaults.AvatarSeed}
		}
	}
	if username != "" {
		prefill.Name = username
	}
	return prefill
}

func rememberLogin(ctx context.Context, store *storage.Store) func(intrnl.Identity) {
	if store == nil {
		return nil
	}
	return func(identity intrnl.Identity) {
		defaults := storage.LoginDefaults{Username: identity.Name, AvatarSeed: identity.AvatarSeed}
		if err := store.SaveLoginDefaults(ctx, defaults); err != nil {
			log.Warn().Err(err).Msg("save login defaults")
		}
	}
}
