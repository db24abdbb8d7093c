package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/lexlens/lexlens/internal/lexlink/content"
	"github.com/lexlens/lexlens/internal/lexlink/encode"
	"github.com/lexlens/lexlens/internal/observability"
)

var askImages []string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run a legal analysis and stream the result",
	Long: `Run the analysis pipeline once and stream the output to stdout.

Images are attached with --image and interpreted before analysis using the
configured strategy (OCR or a vision model).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		question := ""
		if len(args) > 0 {
			question = args[0]
		}
		if strings.TrimSpace(question) == "" && len(askImages) == 0 {
			return fmt.Errorf("a question or at least one --image is required")
		}

		messages, err := buildAskMessages(question, askImages)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitFileNotFound, "Failed to read image", err)
		}

		pipeline, _, err := buildPipeline(cfg, pipelineOverrides{}, observability.CLILogger)
		if err != nil {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Failed to build pipeline", err)
		}

		run := pipeline.Run(cmd.Context(), question, messages)
		defer func() { _ = run.Close() }()

		out := cmd.OutOrStdout()
		for run.Next() {
			fmt.Fprint(out, run.Text())
		}
		fmt.Fprintln(out)
		return nil
	},
}

// buildAskMessages wraps the question and any attached image files into a
// single user message with multimodal content parts.
func buildAskMessages(question string, imagePaths []string) ([]content.Message, error) {
	if len(imagePaths) == 0 {
		return []content.Message{{Role: "user", Content: content.TextContent(question)}}, nil
	}

	parts := make([]content.Part, 0, len(imagePaths)+1)
	if strings.TrimSpace(question) != "" {
		parts = append(parts, content.Part{Kind: content.PartText, Text: question})
	}
	for _, path := range imagePaths {
		data, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", path, err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if !strings.HasPrefix(mimeType, "image/") {
			mimeType = "image/png"
		}
		parts = append(parts, content.Part{
			Kind: content.PartImageURL,
			URL:  encode.ImageDataURI(mimeType, data),
		})
	}

	return []content.Message{{Role: "user", Content: content.PartsContent(parts...)}}, nil
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringArrayVar(&askImages, "image", nil, "image file to analyze (repeatable)")
}
