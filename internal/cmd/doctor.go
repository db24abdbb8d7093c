package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lexlens/lexlens/internal/config"
	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
	"github.com/lexlens/lexlens/internal/lexlink/interpret"
	"github.com/lexlens/lexlens/internal/observability"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long:  "Run diagnostic checks on the system and suggest fixes for common issues.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		identity := GetAppIdentity()
		bannerName := "doctor"
		if identity != nil && identity.BinaryName != "" {
			bannerName = identity.BinaryName + " doctor"
		}
		observability.CLILogger.Info("=== " + bannerName + " ===")
		observability.CLILogger.Info("")
		observability.CLILogger.Info("Running diagnostic checks...")
		observability.CLILogger.Info("")

		allChecks := true
		totalChecks := 6

		// Check 1: Go version
		goVersion := runtime.Version()
		if goVersion >= "go1.23" {
			observability.CLILogger.Info(fmt.Sprintf("[1/%d] Checking Go version... ✅ %s", totalChecks, goVersion), zap.String("go_version", goVersion))
		} else {
			observability.CLILogger.Warn(fmt.Sprintf("[1/%d] Checking Go version... ⚠️  %s (recommended: go1.23+)", totalChecks, goVersion), zap.String("go_version", goVersion))
			allChecks = false
		}

		// Check 2: Gofulmen access
		version := crucible.GetVersion()
		if version.Gofulmen != "" {
			observability.CLILogger.Info(fmt.Sprintf("[2/%d] Checking Gofulmen access... ✅ v%s", totalChecks, version.Gofulmen), zap.String("gofulmen_version", version.Gofulmen))
		} else {
			observability.CLILogger.Error(fmt.Sprintf("[2/%d] Checking Gofulmen access... ❌ Cannot access Gofulmen", totalChecks))
			allChecks = false
		}

		// Check 3: Configuration
		cfg, cfgErr := config.Load(viper.GetViper())
		if cfgErr != nil {
			observability.CLILogger.Error(fmt.Sprintf("[3/%d] Checking configuration... ❌ %v", totalChecks, cfgErr), zap.Error(cfgErr))
			allChecks = false
		} else {
			observability.CLILogger.Info(fmt.Sprintf("[3/%d] Checking configuration... ✅ strategy=%s", totalChecks, cfg.Interpreter.Strategy),
				zap.String("strategy", cfg.Interpreter.Strategy),
				zap.String("host", cfg.Ollama.Host))
		}

		// Check 4: Ollama backend reachability
		if cfgErr == nil {
			client := ollama.NewClient(cfg.Ollama.Host)
			client.Timeout = cfg.Ollama.Timeout
			models, err := client.ListModels(ctx)
			if err != nil {
				observability.CLILogger.Warn(fmt.Sprintf("[4/%d] Checking Ollama backend... ⚠️  %s unreachable (%v)", totalChecks, cfg.Ollama.Host, err),
					zap.String("host", cfg.Ollama.Host),
					zap.Error(err))
				allChecks = false
			} else {
				observability.CLILogger.Info(fmt.Sprintf("[4/%d] Checking Ollama backend... ✅ %s (%d models)", totalChecks, cfg.Ollama.Host, len(models)),
					zap.String("host", cfg.Ollama.Host),
					zap.Int("model_count", len(models)))

				// Check 5: Configured models installed
				installed := make(map[string]bool, len(models))
				for _, m := range models {
					installed[m.Name] = true
				}
				missing := []string{}
				if !installed[cfg.Models.Reasoning] {
					missing = append(missing, cfg.Models.Reasoning)
				}
				if cfg.Interpreter.Strategy == config.StrategyVision && !installed[cfg.Models.Vision] {
					missing = append(missing, cfg.Models.Vision)
				}
				if len(missing) == 0 {
					observability.CLILogger.Info(fmt.Sprintf("[5/%d] Checking configured models... ✅ installed", totalChecks))
				} else {
					observability.CLILogger.Warn(fmt.Sprintf("[5/%d] Checking configured models... ⚠️  missing %v (run 'ollama pull')", totalChecks, missing),
						zap.Strings("missing_models", missing))
					allChecks = false
				}
			}
		}

		// Check 6: OCR engine availability
		if cfgErr == nil && cfg.Interpreter.Strategy == config.StrategyOCR {
			if engine := interpret.DefaultEngine(cfg.Interpreter.OCR.Languages); engine != nil {
				observability.CLILogger.Info(fmt.Sprintf("[6/%d] Checking OCR engine... ✅ tesseract available", totalChecks))
			} else {
				observability.CLILogger.Warn(fmt.Sprintf("[6/%d] Checking OCR engine... ⚠️  not compiled in (built with noocr tag)", totalChecks))
				allChecks = false
			}
		} else {
			observability.CLILogger.Info(fmt.Sprintf("[6/%d] Checking OCR engine... skipped (vision strategy)", totalChecks))
		}

		observability.CLILogger.Info("")
		if allChecks {
			observability.CLILogger.Info("All checks passed ✅")
		} else {
			observability.CLILogger.Warn("Some checks reported problems ⚠️")
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
