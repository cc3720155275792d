package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/stanza"
	"github.com/aretw0/stanza/internal/cli"
	"github.com/aretw0/stanza/internal/logging"
	"github.com/aretw0/stanza/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Build a poem interactively in the terminal",
	Long: `Starts a traversal and offers words on every turn. Type a word or its
number; "q" quits. Sessions are resumed unless --fresh is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		chainID, _ := cmd.Flags().GetString("chain")
		fresh, _ := cmd.Flags().GetBool("fresh")
		once, _ := cmd.Flags().GetBool("once")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		debug, _ := cmd.Flags().GetBool("debug")

		// Logs stay off the terminal unless asked for.
		logger := logging.NewNop()
		if debug {
			logger = logging.New(slog.LevelDebug)
		}

		app, err := newApp(cmd, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := app.StartWatch(ctx); err != nil {
			logger.Warn("watch disabled", "err", err)
		}

		interactive := term.IsTerminal(int(os.Stdout.Fd())) && !jsonMode && !plain
		player := &cli.Player{
			Engine:   app.Engine,
			Sessions: app.Sessions,
			In:       os.Stdin,
			Out:      os.Stdout,
			JSON:     jsonMode,
			Logger:   logger,
		}
		if interactive {
			tui.PrintBanner(os.Stdout, stanza.Version)
			player.Render = tui.NewRenderer()
		}

		return player.Play(ctx, cli.PlayOptions{
			SessionID: sessionID,
			ChainID:   chainID,
			Fresh:     fresh,
			Once:      once,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("session", cli.DefaultSessionID, "Session ID to resume or create")
	playCmd.Flags().String("chain", "", "Chain to start with (drawn from the pool when empty)")
	playCmd.Flags().Bool("fresh", false, "Discard the stored traversal and start over")
	playCmd.Flags().Bool("once", false, "Exit after the first poem")
	playCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON output, one word per input line)")
	playCmd.Flags().Bool("plain", false, "Disable banner and markdown rendering")
	playCmd.Flags().Bool("debug", false, "Write debug logs to stderr")

	// 'play' is the default if no command is provided.
	rootCmd.RunE = playCmd.RunE
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}
