package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"kgqa/pkg/common"
	"kgqa/pkg/logger"
)

// Persist writes the dataset under dir: one JSONL file per tier, one
// combined JSONL file, and a JSON summary. One record per line.
func Persist(ds *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	var all []common.QARecord
	for _, tier := range []common.Tier{common.TierEasy, common.TierMedium, common.TierHard} {
		records := ds.Tiers[tier]
		path := filepath.Join(dir, fmt.Sprintf("qa_%s.jsonl", tier))
		if err := writeJSONL(path, records); err != nil {
			return err
		}
		logger.Info("Wrote tier file", "path", path, "records", len(records))
		all = append(all, records...)
	}

	allPath := filepath.Join(dir, "qa_all.jsonl")
	if err := writeJSONL(allPath, all); err != nil {
		return err
	}
	logger.Info("Wrote combined file", "path", allPath, "records", len(all))

	statsPath := filepath.Join(dir, "qa_stats.json")
	stats, err := json.MarshalIndent(ds.Summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.WriteFile(statsPath, append(stats, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", statsPath, err)
	}
	logger.Info("Wrote summary", "path", statsPath)

	return nil
}

func writeJSONL(path string, records []common.QARecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			file.Close()
			return fmt.Errorf("failed to write record to %s: %w", path, err)
		}
	}
	return file.Close()
}
