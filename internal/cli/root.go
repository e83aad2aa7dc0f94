// Package cli implements the aura CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/aura/internal/config"
	"github.com/rcliao/aura/internal/llm"
	"github.com/rcliao/aura/internal/search"
	"github.com/rcliao/aura/internal/store"
)

var (
	configPath string
	debugFlag  bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Voice assistant orchestration core",
	Long:  "Aura routes spoken queries to chat models, live search, and desktop automation, coordinating with the capture and presentation layers through file-backed state slots.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./aura.yaml or ~/.aura/aura.yaml)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Verbose logging")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newLogger() (*zap.Logger, error) {
	if debugFlag {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath)
}

// newChatModel builds the configured chat provider.
func newChatModel(ctx context.Context, cfg *config.Config) (llm.ChatModel, error) {
	return llm.NewChatModel(ctx, cfg.Provider, cfg.APIKey, cfg.BaseURL, cfg.Model)
}

// newRealtime wires the realtime answer channel over the live search engine.
func newRealtime(cfg *config.Config, chat llm.ChatModel, log *zap.Logger) llm.Responder {
	engine := search.New(log, cfg.WeatherAPIKey, cfg.NewsAPIKey, cfg.City)
	return llm.NewRealtimeResponder(chat, llm.RealtimeSystem(cfg.Username, cfg.Assistant), engine.Gather)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
