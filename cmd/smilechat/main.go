package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	intrnl "smilechat/internal"
	"smilechat/internal/app"
)

var rootCmd = &cobra.Command{
	Use:           "smilechat",
	Short:         "Terminal client for SmileChat group chat",
	Version:       intrnl.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClient,
}

var (
	flagServerURL        string
	flagUser             string
	flagDBPath           string
	flagLogPath          string
	flagLogLevel         string
	flagLogPretty        bool
	flagAvatarURL        string
	flagSendRate         float64
	flagSendBurst        int
	flagHandshakeTimeout time.Duration
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagServerURL, "server", envOrDefault("SMILECHAT_SERVER", app.DefaultServerURL), "chat server websocket URL (ws, wss, http or https)")
	flags.StringVar(&flagUser, "user", envOrDefault("SMILECHAT_USER", ""), "username to prefill on the login screen")
	flags.StringVar(&flagDBPath, "db", envOrDefault("SMILECHAT_DB_PATH", ""), "sqlite preferences path (defaults to a per-user path)")
	flags.StringVar(&flagLogPath, "log", envOrDefault("SMILECHAT_LOG", ""), "log file path (defaults to a per-user path)")
	flags.StringVar(&flagLogLevel, "log-level", envOrDefault("SMILECHAT_LOG_LEVEL", app.DefaultLogLevel), "log level (debug, info, warn, error)")
	flags.BoolVar(&flagLogPretty, "log-pretty", false, "write human readable log lines instead of JSON")
	flags.StringVar(&flagAvatarURL, "avatar-url", envOrDefault("SMILECHAT_AVATAR_URL", intrnl.DefaultAvatarBaseURL), "avatar image service base URL")
	flags.Float64Var(&flagSendRate, "send-rate", app.DefaultSendRate, "outbound frames per second")
	flags.IntVar(&flagSendBurst, "send-burst", app.DefaultSendBurst, "outbound frame burst size")
	flags.DurationVar(&flagHandshakeTimeout, "handshake-timeout", app.DefaultHandshakeTimeout, "websocket handshake timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "smilechat: %v\n", err)
		os.Exit(1)
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	return app.RunClient(app.ClientConfig{
		ServerURL:        flagServerURL,
		Username:         flagUser,
		DBPath:           flagDBPath,
		LogPath:          flagLogPath,
		LogLevel:         flagLogLevel,
		LogPretty:        flagLogPretty || envBool("SMILECHAT_LOG_PRETTY"),
		AvatarBaseURL:    flagAvatarURL,
		SendRate:         flagSendRate,
		SendBurst:        flagSendBurst,
		HandshakeTimeout: flagHandshakeTimeout,
	})
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}
