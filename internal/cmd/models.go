package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
	"github.com/lexlens/lexlens/internal/observability"
	"github.com/lexlens/lexlens/internal/output"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models installed on the backend",
	Long:  "List the models available on the configured Ollama server and mark which are used for vision and reasoning.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		client := ollama.NewClient(cfg.Ollama.Host)
		client.Timeout = cfg.Ollama.Timeout

		models, err := client.ListModels(cmd.Context())
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitExternalServiceUnavailable, "Failed to list models from "+cfg.Ollama.Host, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), output.ModelsTable(models, cfg.Models.Vision, cfg.Models.Reasoning))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
