package main

import (
	"context"
	"fmt"

	"github.com/newthinker/insiderlog/internal/logger"
	"github.com/newthinker/insiderlog/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and publish the report",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	application, err := buildApp(cfg, metrics.NewRegistry(), log)
	if err != nil {
		return err
	}

	rep, err := application.Run(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	log.Info("report published",
		zap.String("run_id", rep.RunID),
		zap.Bool("empty", rep.Empty()))
	return nil
}
