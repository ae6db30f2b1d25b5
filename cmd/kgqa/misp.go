package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kgqa/pkg/importer"
	"kgqa/pkg/loader/misp"
	"kgqa/pkg/logger"
	"kgqa/pkg/store"
)

var mispCmd = &cobra.Command{
	Use:   "misp",
	Short: "Import a MISP event export",
	Long: `Load a MISP event export file and upsert the events with their
attributes, objects, galaxies and tags into the store.`,
	RunE: runMisp,
}

var (
	mispInput       string
	mispEventID     string
	mispTags        []string
	mispThreatLevel string
	mispAnalysis    string
	mispClear       bool
)

func init() {
	mispCmd.Flags().StringVar(&mispInput, "input", "", "MISP event export file (required)")
	mispCmd.Flags().StringVar(&mispEventID, "event-id", "", "import only the event with this id")
	mispCmd.Flags().StringSliceVar(&mispTags, "tags", nil, "keep events carrying any of these tags")
	mispCmd.Flags().StringVar(&mispThreatLevel, "threat-level", "", "keep events with this threat_level_id")
	mispCmd.Flags().StringVar(&mispAnalysis, "analysis", "", "keep events with this analysis level")
	mispCmd.Flags().BoolVar(&mispClear, "clear", false, "clear the store before importing")
	mispCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(mispCmd)
}

func runMisp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	reader, err := sourceReader(ctx, mispInput)
	if err != nil {
		return err
	}

	events, err := misp.Load(ctx, reader, mispInput)
	if err != nil {
		return err
	}
	logger.Info("Loaded MISP export", "events", len(events))

	events = misp.FilterEvents(events,
		misp.EventIDFilter(mispEventID),
		misp.TagFilter(mispTags),
		misp.ThreatLevelFilter(mispThreatLevel),
		misp.AnalysisFilter(mispAnalysis))
	if len(events) == 0 {
		return fmt.Errorf("no events match the given filter")
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if mispClear {
		if err := store.Clear(ctx, s); err != nil {
			return err
		}
	}
	store.EnsureIndexes(ctx, s, store.ThreatIndexStatements())

	summary := importer.NewMispImporter(s).Import(ctx, events)
	logger.Info("MISP import finished",
		"entities", summary.Entities,
		"relationships", summary.Relationships)
	return nil
}
