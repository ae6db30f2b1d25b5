package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"kgqa/internal/util"
	"kgqa/pkg/logger"
	"kgqa/pkg/misp"
)

var mispDownloadCmd = &cobra.Command{
	Use:   "misp-download",
	Short: "Download events from a MISP server",
	Long: `Fetch events from a MISP server's REST API and write them to a JSON
file suitable for the misp import command. The server must be reachable
before any download starts.`,
	RunE: runMispDownload,
}

var (
	downloadURL         string
	downloadKey         string
	downloadEventID     string
	downloadTags        []string
	downloadThreatLevel string
	downloadAnalysis    string
	downloadLimit       int
	downloadOutput      string
)

func init() {
	mispDownloadCmd.Flags().StringVar(&downloadURL, "url", "", "MISP server URL (default $MISP_URL)")
	mispDownloadCmd.Flags().StringVar(&downloadKey, "key", "", "MISP API key (default $MISP_API_KEY)")
	mispDownloadCmd.Flags().StringVar(&downloadEventID, "event-id", "", "download only the event with this id")
	mispDownloadCmd.Flags().StringSliceVar(&downloadTags, "tags", nil, "download events carrying any of these tags")
	mispDownloadCmd.Flags().StringVar(&downloadThreatLevel, "threat-level", "", "threat level filter (1-4)")
	mispDownloadCmd.Flags().StringVar(&downloadAnalysis, "analysis", "", "analysis level filter (0-2)")
	mispDownloadCmd.Flags().IntVar(&downloadLimit, "limit", misp.DefaultEventLimit, "maximum number of events")
	mispDownloadCmd.Flags().StringVar(&downloadOutput, "output", "", "output file (default misp_events_<timestamp>.json)")

	rootCmd.AddCommand(mispDownloadCmd)
}

func runMispDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	url := firstOf(downloadURL, util.GetEnv("MISP_URL"))
	key := firstOf(downloadKey, util.GetEnv("MISP_API_KEY"))
	if url == "" || key == "" {
		return fmt.Errorf("MISP server URL and API key are required")
	}

	client := misp.NewClient(url, key)
	version, err := client.TestConnection(ctx)
	if err != nil {
		return err
	}
	logger.Info("Connected to MISP server", "version", version)

	events, err := client.DownloadEvents(ctx, misp.EventFilter{
		EventID:     downloadEventID,
		Tags:        downloadTags,
		ThreatLevel: downloadThreatLevel,
		Analysis:    downloadAnalysis,
		Limit:       downloadLimit,
	})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		logger.Warn("No events matched the given filter")
		return nil
	}

	output := downloadOutput
	if output == "" {
		output = fmt.Sprintf("misp_events_%s.json", time.Now().Format("20060102_150405"))
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	var attributes, objects int
	for _, event := range events {
		if list, ok := event["Attribute"].([]any); ok {
			attributes += len(list)
		}
		if list, ok := event["Object"].([]any); ok {
			objects += len(list)
		}
	}
	logger.Info("Download finished",
		"events", len(events),
		"attributes", attributes,
		"objects", objects,
		"output", output)
	return nil
}
