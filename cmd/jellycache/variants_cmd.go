package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Nomadcxx/jellycache/internal/database"
	"github.com/Nomadcxx/jellycache/internal/ui"
	"github.com/spf13/cobra"
)

func newVariantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Inspect the registry of observed quality variants",
		Long: `Commands for the variant registry.

Every distinct fingerprint served by 'jellycache serve' is recorded with
its description, score, size estimate and hit count.

Examples:
  jellycache variants list --limit 20
  jellycache variants prune --older-than 720h
  jellycache variants delete 1a2b3c4d5e6f`,
	}

	cmd.AddCommand(newVariantsListCmd())
	cmd.AddCommand(newVariantsPruneCmd())
	cmd.AddCommand(newVariantsDeleteCmd())

	return cmd
}

func openRegistry() (*database.VariantDB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := database.OpenPath(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open variant registry: %w", err)
	}
	return db, nil
}

func newVariantsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variants, best score first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openRegistry()
			if err != nil {
				return err
			}
			defer db.Close()

			variants, err := db.ListVariants(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(variants) == 0 {
				fmt.Fprintln(out, ui.Dim("no variants recorded yet"))
				return nil
			}

			tbl := ui.NewTable("KEY", "DESCRIPTION", "SCORE", "EST. SIZE", "HITS", "LAST SEEN")
			for _, v := range variants {
				tbl.AddRow(
					v.CacheKey,
					v.Description,
					ui.FormatScore(v.Score),
					ui.FormatBytes(v.EstimatedSize),
					strconv.FormatInt(v.HitCount, 10),
					v.LastSeen.Local().Format(time.DateTime),
				)
			}
			tbl.Render(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of variants (0 = all)")

	return cmd
}

func newVariantsPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove variants not seen recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			db, err := openRegistry()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.PruneOlderThan(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed %d variant(s)\n", ui.Success("✓"), n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "remove variants last seen before this long ago")

	return cmd
}

func newVariantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a single variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openRegistry()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteVariant(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", ui.Success("✓"), args[0])
			return nil
		},
	}
}
