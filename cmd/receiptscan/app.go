package main

import (
	"log/slog"
	"os"

	"github.com/nao1215/receiptscan/internal/config"
	"github.com/nao1215/receiptscan/internal/database"
	"github.com/nao1215/receiptscan/internal/forensic"
	"github.com/nao1215/receiptscan/internal/log"
	"github.com/nao1215/receiptscan/internal/metadata"
	"github.com/nao1215/receiptscan/internal/orchestrator"
	"github.com/nao1215/receiptscan/internal/reputation"
	"github.com/nao1215/receiptscan/internal/vision"
	"github.com/spf13/cobra"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a sanitizing structured logger based on verbosity.
// Account numbers and API keys never reach the log output in the clear.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// buildOrchestrator wires the signal producers into an orchestrator.
// The database doubles as the reputation producer's fraud store.
func buildOrchestrator(cfg *config.Config, db *database.FraudDB, logger *slog.Logger) *orchestrator.Orchestrator {
	visionClient := vision.NewClient(cfg.OpenAIAPIKey,
		vision.WithModel(cfg.VisionModel),
		vision.WithLogger(logger),
	)

	forensicEngine := forensic.NewEngine(forensic.WithLogger(logger))

	metadataOpts := []metadata.Option{metadata.WithLogger(logger)}
	if len(cfg.EditingSoftware) > 0 {
		metadataOpts = append(metadataOpts, metadata.WithEditingSoftware(cfg.EditingSoftware))
	}
	metadataEngine := metadata.NewEngine(metadataOpts...)

	reputationProducer := reputation.NewProducer(db, reputation.WithLogger(logger))

	return orchestrator.New(
		visionClient,
		forensicEngine,
		metadataEngine,
		reputationProducer,
		orchestrator.WithUnitTimeout(cfg.UnitTimeout),
		orchestrator.WithLogger(logger),
	)
}
