package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/etracking_app/internal/core/services"
	"github.com/SscSPs/etracking_app/internal/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load employees and warehouses",
	Long: `Upsert employees and warehouses from a JSON file shaped like
{"employees": [{"id", "name", "position", "number"}], "warehouses": [{"id", "name", "picName"}]}.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringP("file", "f", "", "Reference data JSON file")
	_ = seedCmd.MarkFlagRequired("file")
	seedCmd.Flags().String("actor", "seed", "Name recorded as creator of the rows")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	actor, _ := cmd.Flags().GetString("actor")

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	var req dto.SeedReferenceRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	ctx := cmd.Context()
	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	reference := services.NewReferenceService(repos.ReferenceRepo, cfg.ReferenceCacheTTL)
	employees, warehouses := req.ToDomain()
	if err := reference.Seed(ctx, employees, warehouses, actor); err != nil {
		return err
	}
	logger.Info("Seed complete", slog.String("file", path))
	return nil
}
