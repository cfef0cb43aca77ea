package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/use-agent/deckscope/config"
	"github.com/use-agent/deckscope/models"
	"github.com/use-agent/deckscope/scraper"
)

type scraperKey struct{}

var (
	asJSON  bool
	verbose bool

	heading = color.New(color.FgCyan, color.Bold)
	warning = color.New(color.FgYellow)
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "deckscope-cli",
	Short: "Look up EDHREC average decks, tags and themes",
	Long: `deckscope-cli fetches EDHREC commander pages directly and prints average decks,
bracket lists, commander tags and theme cards as tables.

Configuration is read from DECKSCOPE_* environment variables and the optional
TOML file named by DECKSCOPE_CONFIG.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		// Tests inject their own scraper.
		if _, ok := cmd.Context().Value(scraperKey{}).(*scraper.Scraper); ok {
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// One-shot process: no point caching.
		cfg.Cache.Enabled = false
		cmd.SetContext(context.WithValue(cmd.Context(), scraperKey{}, scraper.NewFromConfig(cfg)))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON instead of tables")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log fetches and retries to stderr")

	RootCmd.AddCommand(deckCmd, decksCmd, bracketsCmd, tagsCmd, themeCmd, budgetCmd, compareCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.ExecuteContext(context.Background())
}

func scraperFrom(cmd *cobra.Command) *scraper.Scraper {
	return cmd.Context().Value(scraperKey{}).(*scraper.Scraper)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printJSON writes v indented when --json is set and reports whether it did.
func printJSON(w io.Writer, v any) (bool, error) {
	if !asJSON {
		return false, nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

// describe renders an engine error with its kind for the terminal.
func describe(err error) error {
	e := models.AsExtractError(err)
	if e.URL != "" {
		return fmt.Errorf("%s: %s (%s)", e.Kind, e.Message, e.URL)
	}
	return fmt.Errorf("%s: %s", e.Kind, e.Message)
}
