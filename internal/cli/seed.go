package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/equine-practice/internal/seed"
)

func newSeedCommand(opts *RootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo practice with staff, services and one booking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return errors.New("--password must be at least 6 characters")
			}

			db, log, err := open(opts)
			if err != nil {
				return err
			}

			res, err := seed.Demo(cmd.Context(), db, password, time.Now())
			if errors.Is(err, seed.ErrAlreadySeeded) {
				fmt.Fprintln(cmd.OutOrStdout(), "demo practice already present")
				return nil
			}
			if err != nil {
				return err
			}

			log.Info("demo practice seeded",
				zap.Uint("practice_id", res.Practice.ID),
				zap.String("slug", res.Practice.Slug),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s (owner login: %s)\n", res.Practice.Slug, res.Owner.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "changeme", "password for the demo staff accounts")
	return cmd
}
