package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"thermometer/internal/bot"
	"thermometer/internal/config"
)

var (
	configPath string
	debug      bool
)

// rootCmd runs the bot until interrupted
var rootCmd = &cobra.Command{
	Use:           "thermometer",
	Short:         "Discord bot answering questions about users and guilds",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBot,
}

// registerCmd overwrites the application commands and exits
var registerCmd = &cobra.Command{
	Use:           "register",
	Short:         "Register the slash commands and the context menu with Discord",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRegister,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.AddCommand(registerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Exiting")
		os.Exit(1)
	}
}

// Load the configuration and set up logging accordingly
func setup() (*config.Config, error) {

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level %s not valid: %w", cfg.LogLevel, err)
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

func runBot(cmd *cobra.Command, args []string) error {

	cfg, err := setup()
	if err != nil {
		return err
	}
	bot, err := bot.NewBot(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return bot.Run(ctx)
}

func runRegister(cmd *cobra.Command, args []string) error {

	cfg, err := setup()
	if err != nil {
		return err
	}
	bot, err := bot.NewBot(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return bot.Register(ctx)
}
