package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/cliparse"
	"github.com/danielhkuo/civicvote/db"
	"github.com/danielhkuo/civicvote/models"
	"github.com/danielhkuo/civicvote/seed"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			commonRun()
			cfg, err := cliparse.Resolve(cmd.Flags())
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.DB().Close()

			slog.Info("schema ready",
				"type", cfg.DatabaseType,
				"tables", humanize.Comma(int64(len(db.Tables))),
			)
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load admin records and proposals from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commonRun()
			cfg, err := cliparse.Resolve(cmd.Flags())
			if err != nil {
				return err
			}

			f, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.DB().Close()

			start := time.Now()
			res, err := seed.Apply(cmd.Context(), st, f)
			if err != nil {
				return fmt.Errorf("seed stopped after %s: %w", res, err)
			}
			slog.Info("seed loaded",
				"file", args[0],
				"result", res.String(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		},
	}
}

func tokenCommand() *cobra.Command {
	var (
		id   models.Identity
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed identity token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := cliparse.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.IdentitySecret == "" {
				return errors.New("IDENTITY_SECRET required")
			}

			id.Role = models.ParseRole(role)
			if id.Role == models.RoleInvalid {
				return fmt.Errorf("unknown role %q", role)
			}

			token, err := auth.IssueToken(cfg.IdentitySecret, cfg.IdentityIssuer, id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&id.UserID, "user", "", "user id (sub claim)")
	cmd.Flags().StringVar(&role, "role", "citizen", "citizen, admin or superadmin")
	cmd.Flags().StringVar(&id.Jurisdiction.Region, "region", "", "region claim")
	cmd.Flags().StringVar(&id.Jurisdiction.ZoneOrSubcity, "zone", "", "zone or subcity claim")
	cmd.Flags().StringVar(&id.Jurisdiction.Woreda, "woreda", "", "woreda claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.MarkFlagRequired("user")
	return cmd
}
