package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/ai"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/config"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	envFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "bridge",
		Short:         "WhatsApp / Shopify / AI reply bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file to load (default: .env)")

	serve := newServeCmd(opts)
	cmd.AddCommand(serve)
	cmd.AddCommand(newModelsCmd(opts))

	// bare `bridge` starts the server
	cmd.RunE = serve.RunE

	return cmd
}

// bootstrap loads config and builds the logger shared by all commands.
func bootstrap(opts *options) (config.Config, *zap.Logger, error) {
	var files []string
	if opts.envFile != "" {
		files = append(files, opts.envFile)
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func newAIClient(cfg config.Config, log *zap.Logger) *ai.OpenAIClient {
	return ai.NewOpenAIClient(cfg.AI, &http.Client{Timeout: cfg.AI.AskTimeout + cfg.HTTPClientTimeout}, log)
}
