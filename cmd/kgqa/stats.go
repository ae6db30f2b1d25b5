package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"kgqa/pkg/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store contents",
	Long: `Print node and relationship counts plus the per-label and per-type
distributions of the imported graph as JSON.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	stats, err := store.ReadStats(ctx, s)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
