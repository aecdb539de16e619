package main

import (
	"context"
	"fmt"

	"github.com/clocktower/grimoire-go/internal/config"
	"github.com/clocktower/grimoire-go/internal/game"
	"github.com/clocktower/grimoire-go/internal/scenario"
	"github.com/clocktower/grimoire-go/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var showHidden bool

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Play a scenario and print the final grimoire",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		sc, err := scenario.LoadFile(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		runner := scenario.NewRunner(gameOptions(cfg, logger))
		res, runErr := runner.Run(ctx, sc)
		if res == nil {
			return runErr
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(sc.Name))
		for _, line := range res.Lines {
			fmt.Fprintln(out, lineStyle.Render(line))
		}
		fmt.Fprintln(out, renderGrimoire(res.Snapshot, showHidden))

		if err := persist(ctx, cfg, logger, res); err != nil {
			return err
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().BoolVar(&showHidden, "all", false, "show hidden and disabled effects")
	rootCmd.AddCommand(runCmd)
}

func gameOptions(cfg *config.Config, logger *zap.Logger) game.Options {
	return game.Options{
		Logger:             logger,
		MaxResolutionDepth: cfg.Engine.MaxResolutionDepth,
		MaxCascadeDepth:    cfg.Engine.MaxCascadeDepth,
		InitialDeadVotes:   deadVotes(cfg.Engine.InitialDeadVotes),
		RecordHistory:      cfg.History.Enabled,
	}
}

// deadVotes maps the configured count onto player.Options, where zero means
// the default and a negative value means none.
func deadVotes(n int) int {
	if n == 0 {
		return -1
	}
	return n
}

func persist(ctx context.Context, cfg *config.Config, logger *zap.Logger, res *scenario.Result) error {
	if cfg.History.Enabled {
		res.Game.History().Record(res.Snapshot)
		if _, err := res.Game.SaveHistory(cfg.History.Dir); err != nil {
			return err
		}
	}
	if !cfg.Database.Enabled() {
		return nil
	}
	db, err := storage.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	repo := storage.NewSnapshotRepository(db.Pool, logger)
	if err := repo.Save(ctx, res.Snapshot); err != nil {
		return fmt.Errorf("failed to store grimoire: %w", err)
	}
	return nil
}
