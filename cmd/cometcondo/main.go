package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DaanHessen/cometcondo/internal/engine"
	"github.com/DaanHessen/cometcondo/internal/imagegen"
	"github.com/DaanHessen/cometcondo/internal/ui"
	"github.com/DaanHessen/cometcondo/internal/util"
)

var version = "0.1.0-alpha"

// Flag values; resolveConfig layers them over environment and defaults.
var (
	apiKey      string
	model       string
	target      string
	commitDelay time.Duration
	cityCount   int
	seedText    string
	theme       string
	logFile     string
	receiptsDir string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "cometcondo",
	Short: "Luxury living on Comet 3I/ATLAS, from your terminal",
	Long: `cometcondo is a satirical storefront for condos on a comet.

Browse the listings, request AI renders, pick a StarCast teleporter, design
your bespoke meat suit and submit a (mock) deposit.

Set GEMINI_API_KEY (or API_KEY) to enable image generation.`,
	SilenceUsage: true,
	RunE:         runStorefront,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "cometcondo", version)
	},
}

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List every city the teleporter network can be drawn from",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := engine.LoadCatalog()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CITY\tLAT\tLNG")
		for _, c := range catalog.Cities() {
			fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", c.Name, c.Lat, c.Lng)
		}
		return w.Flush()
	},
}

func init() {
	d := util.Defaults()
	f := rootCmd.Flags()
	f.StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY / API_KEY)")
	f.StringVar(&model, "model", d.Model, "Image model (or set COMETCONDO_MODEL)")
	f.StringVar(&target, "target", "", "Countdown target, RFC3339 or local 2006-01-02T15:04:05 (or set COMETCONDO_TARGET)")
	f.DurationVar(&commitDelay, "commit-delay", d.CommitDelay, "Simulated processing delay (or set COMETCONDO_COMMIT_DELAY)")
	f.IntVar(&cityCount, "cities", d.CityCount, "Number of teleporters shown on the map")
	f.StringVar(&seedText, "seed", "", "Session seed for the teleporter draw (random if omitted)")
	f.StringVar(&theme, "theme", d.Theme, "Colour theme: catppuccin|dracula|gruvbox|solarized_dark (or set COMETCONDO_THEME)")
	f.StringVar(&logFile, "log-file", d.LogFile, "Log file path (or set COMETCONDO_LOG)")
	f.StringVar(&receiptsDir, "receipts-dir", d.ReceiptsDir, "Directory for exported PDF receipts")
	f.BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(citiesCmd)
}

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig applies, lowest to highest: defaults, environment, flags the
// user set explicitly.
func resolveConfig(cmd *cobra.Command) (util.Config, error) {
	cfg := util.Defaults()
	changed := cmd.Flags().Changed

	cfg.APIKey = util.APIKeyFromEnv()
	if changed("api-key") {
		cfg.APIKey = strings.TrimSpace(apiKey)
	}

	cfg.Model = pick(changed("model"), model, os.Getenv("COMETCONDO_MODEL"), cfg.Model)
	cfg.Theme = pick(changed("theme"), theme, os.Getenv("COMETCONDO_THEME"), cfg.Theme)
	cfg.LogFile = pick(changed("log-file"), logFile, os.Getenv("COMETCONDO_LOG"), cfg.LogFile)
	cfg.ReceiptsDir = receiptsDir
	cfg.CityCount = cityCount
	cfg.Debug = debug

	if raw := pick(changed("target"), target, os.Getenv("COMETCONDO_TARGET"), ""); raw != "" {
		t, err := util.ParseTarget(raw)
		if err != nil {
			return cfg, err
		}
		cfg.Target = t
	}

	cfg.CommitDelay = commitDelay
	if !changed("commit-delay") {
		if raw := os.Getenv("COMETCONDO_COMMIT_DELAY"); raw != "" {
			dur, err := time.ParseDuration(raw)
			if err != nil {
				return cfg, errors.Wrap(err, "COMETCONDO_COMMIT_DELAY")
			}
			cfg.CommitDelay = dur
		}
	}

	cfg.SeedText = strings.TrimSpace(seedText)
	if cfg.SeedText == "" {
		generated, err := engine.RandomSeedText()
		if err != nil {
			return cfg, errors.Wrap(err, "generate seed")
		}
		cfg.SeedText = generated
	}
	return cfg, cfg.Validate()
}

func pick(flagSet bool, flagValue, envValue, fallback string) string {
	switch {
	case flagSet:
		return flagValue
	case envValue != "":
		return envValue
	default:
		return fallback
	}
}

func runStorefront(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logger, err := util.NewLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := engine.LoadCatalog()
	if err != nil {
		return err
	}
	seed, err := engine.NewSessionSeed(cfg.SeedText)
	if err != nil {
		return err
	}
	gateway, err := imagegen.NewGateway(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "init image gateway")
	}

	logger.Info("session start",
		zap.String("version", version),
		zap.String("seed", seed.Text),
		zap.String("model", cfg.Model),
		zap.Time("target", cfg.Target),
		zap.Bool("image_generation", cfg.APIKey != ""))

	return ui.Run(ctx, ui.Deps{
		Config:    cfg,
		Catalog:   catalog,
		Gateway:   gateway,
		Committer: engine.SimulatedCommitter{Delay: cfg.CommitDelay},
		Seed:      seed,
		Logger:    logger,
	})
}
