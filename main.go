// Package main provides the entry point for the Story Studio CLI.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storystudio/internal/audio"
	"storystudio/internal/book"
	"storystudio/internal/cache"
	"storystudio/internal/checkout"
	"storystudio/internal/export"
	"storystudio/internal/generation"
	"storystudio/internal/narration"
	"storystudio/internal/store"
	"storystudio/internal/studio"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	dataDir    string

	rootCmd = &cobra.Command{
		Use:              "storystudio",
		Short:            "Creative writing studio with AI narration",
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
	}
)

// secrets are the credentials the backend refuses to read from config
// files; they come from the environment (optionally via a .env file).
type secrets struct {
	GenerationAPIKey    string `env:"GENERATION_API_KEY"`
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the checkout backend",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		// .env is optional; real deployments set the environment directly.
		_ = godotenv.Load()

		sec, err := env.ParseAs[secrets]()
		if err != nil {
			return fmt.Errorf("error parsing environment: %w", err)
		}
		if sec.StripeSecretKey == "" || sec.StripeWebhookSecret == "" {
			return errors.New("STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET must be set")
		}

		sessions := checkout.NewClient(
			sec.StripeSecretKey,
			viper.GetString("checkout.success_url"),
			viper.GetString("checkout.cancel_url"),
		)
		srv := checkout.NewServer(sessions, sec.StripeWebhookSecret, nil, log.Default())

		addr := viper.GetString("listen")
		log.Info("listening", "addr", addr)
		if err := http.ListenAndServe(addr, srv.Router()); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [CHAPTER]",
	Short: "Export a chapter narration as WAV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterNum, err := strconv.Atoi(args[0])
		if err != nil || chapterNum < 1 {
			return fmt.Errorf("CHAPTER must be a positive chapter number, got %q", args[0])
		}

		st, err := store.Open(dataDir)
		if err != nil {
			return fmt.Errorf("unable to open studio data: %w", err)
		}
		if !st.IsAuthenticated() {
			return errors.New("no active user; log in from the studio first")
		}

		bookID, _ := cmd.Flags().GetString("book")
		outDir, _ := cmd.Flags().GetString("out")
		st.Select(bookID)
		b := st.ActiveBook()
		if b == nil {
			return fmt.Errorf("no book with id %q", bookID)
		}

		idx := chapterNum - 1
		if idx >= len(b.Chapters) {
			return fmt.Errorf("book has %d chapters", len(b.Chapters))
		}
		ch := b.Chapters[idx]
		synth, ok := ch.Audio.(book.SynthesizedAudio)
		if !ok {
			return errors.New("chapter has no synthesized narration")
		}

		path, err := export.WriteNarration(outDir, synth.Data, b.Title, chapterNum, ch.Title)
		if err != nil {
			return fmt.Errorf("unable to export narration: %w", err)
		}
		fmt.Println("Wrote", path)
		return nil
	},
}

var narrateCmd = &cobra.Command{
	Use:   "narrate [CHAPTER]",
	Short: "Synthesize narration for a chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapterNum, err := strconv.Atoi(args[0])
		if err != nil || chapterNum < 1 {
			return fmt.Errorf("CHAPTER must be a positive chapter number, got %q", args[0])
		}

		_ = godotenv.Load()
		sec, err := env.ParseAs[secrets]()
		if err != nil {
			return fmt.Errorf("error parsing environment: %w", err)
		}
		if sec.GenerationAPIKey == "" {
			return errors.New("GENERATION_API_KEY must be set")
		}

		st, err := store.Open(dataDir)
		if err != nil {
			return fmt.Errorf("unable to open studio data: %w", err)
		}
		if !st.IsAuthenticated() {
			return errors.New("no active user; log in from the studio first")
		}

		bookID, _ := cmd.Flags().GetString("book")
		voiceName, _ := cmd.Flags().GetString("voice")
		tone, _ := cmd.Flags().GetString("tone")
		st.Select(bookID)
		b := st.ActiveBook()
		if b == nil {
			return fmt.Errorf("no book with id %q", bookID)
		}

		voice := narration.Voice(voiceName)
		if !narration.IsValidVoice(voice) {
			return fmt.Errorf("unknown voice %q, choose one of %v", voiceName, narration.Voices)
		}

		idx := chapterNum - 1
		if idx >= len(b.Chapters) {
			return fmt.Errorf("book has %d chapters", len(b.Chapters))
		}

		var svc generation.Service = generation.NewClient(viper.GetString("generation.endpoint"), sec.GenerationAPIKey)
		if narrCache, err := cache.New(filepath.Join(dataDir, "narration-cache"), 32<<20, 256<<20); err == nil {
			defer narrCache.Close()
			svc = generation.NewCachedService(svc, narrCache)
		} else {
			log.Warn("narration cache unavailable", "err", err)
		}

		sdo := studio.New(st, svc, nil, log.Default())
		if err := sdo.GenerateSingleNarration(cmd.Context(), idx, voice, tone); err != nil {
			return fmt.Errorf("narration failed: %w", err)
		}

		synth := b.Chapters[idx].Audio.(book.SynthesizedAudio)
		fmt.Printf("Narrated chapter %d (%s)\n", chapterNum, audio.Duration(len(synth.Data), audio.SynthSampleRate, audio.SynthChannels))
		return nil
	},
}

func main() {
	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "studio data directory")

	exportCmd.Flags().String("book", "", "book id to export from")
	exportCmd.Flags().String("out", ".", "output directory")
	_ = exportCmd.MarkFlagRequired("book")

	narrateCmd.Flags().String("book", "", "book id to narrate from")
	narrateCmd.Flags().String("voice", string(narration.VoicePuck), "narration voice")
	narrateCmd.Flags().String("tone", "Neutro", "narration tone")
	_ = narrateCmd.MarkFlagRequired("book")

	serveCmd.Flags().String("listen", ":8787", "listen address")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))

	viper.SetDefault("listen", ":8787")
	viper.SetDefault("generation.endpoint", "https://generativelanguage.example.com")
	viper.SetDefault("checkout.success_url", "http://localhost:5173/?payment_success=true")
	viper.SetDefault("checkout.cancel_url", "http://localhost:5173/?payment_cancelled=true")

	rootCmd.AddCommand(serveCmd, narrateCmd, exportCmd, configCmd)
}

func defaultDataDir() string {
	scope := gap.NewScope(gap.User, "storystudio")
	dir, err := scope.DataPath("")
	if err != nil {
		return "."
	}
	return dir
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "storystudio")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "storystudio")}, dirs...)
	}

	if c := os.Getenv("STORYSTUDIO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("storystudio")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("storystudio")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "storystudio.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
