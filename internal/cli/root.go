package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/config"
	dbpkg "github.com/BruksfildServices01/equine-practice/internal/db"
	"github.com/BruksfildServices01/equine-practice/internal/logger"
)

// Opener returns a migrated database. Tests swap it for an in-memory one.
type Opener func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error)

type RootOptions struct {
	Open Opener
}

// NewRootCommand builds the practicectl command tree.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Open == nil {
		opts.Open = dbpkg.NewDB
	}

	cmd := &cobra.Command{
		Use:           "practicectl",
		Short:         "Administrative tasks for the equine practice API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))

	return cmd
}

func open(opts *RootOptions) (*gorm.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	db, err := opts.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}
