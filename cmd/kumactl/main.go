package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptimekit/gokuma"
	"github.com/uptimekit/gokuma/websocket"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

var flags rootFlags

func main() {
	rootCmd := &cobra.Command{
		Use:   "kumactl",
		Short: "Command line client for Uptime Kuma servers",
		Long: `kumactl talks to an Uptime Kuma server over its websocket API.

Credentials and the server URL come from flags, KUMACTL_* environment
variables or a TOML config file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+defaultConfigPath()+")")
	pf.StringVar(&flags.url, "url", "", "server URL, e.g. https://status.example.com")
	pf.StringVarP(&flags.username, "username", "u", "", "login username")
	pf.StringVarP(&flags.password, "password", "p", "", "login password")
	pf.DurationVar(&flags.timeout, "timeout", 0, "connect and call timeout")
	pf.BoolVar(&flags.insecure, "insecure", false, "skip TLS certificate verification")
	pf.BoolVar(&flags.jsonOut, "json", false, "print raw JSON instead of tables")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		monitorsCmd(),
		notificationsCmd(),
		statusPagesCmd(),
		maintenanceCmd(),
		tagsCmd(),
		infoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// exit codes: 1 for a server-side rejection, 2 for everything else
// (connectivity, usage, local errors).
func exitCode(err error) int {
	var remote *gokuma.RemoteError
	if errors.As(err, &remote) || errors.Is(err, gokuma.ErrAckTimeout) {
		return 1
	}
	return 2
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// dialClient connects, authenticates and returns a ready client. The caller
// owns the disconnect.
func dialClient() (*gokuma.Client, error) {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return nil, err
	}

	logger := newLogger()
	logger.Debug().Str("url", cfg.URL).Msg("dialing")

	tr := websocket.GetDefaultWebsocketTransport()
	tr.UnsecureTLS = cfg.Insecure

	client, err := gokuma.Dial(cfg.URL, &gokuma.Options{
		ConnectTimeout: cfg.Timeout,
		CallTimeout:    cfg.Timeout,
		Transport:      tr,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Username != "" {
		if err := client.Login(cfg.Username, cfg.Password); err != nil {
			client.Disconnect()
			return nil, err
		}
		logger.Debug().Str("user", cfg.Username).Msg("logged in")
	}

	return client, nil
}
