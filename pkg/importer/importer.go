package importer

// DefaultBatchSize is the number of records per UNWIND batch write.
const DefaultBatchSize = 1000

// Summary reports what an import run actually wrote.
type Summary struct {
	Entities         int
	Relationships    int
	SkippedDangling  int
	RelationshipType map[string]int
}

func chunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}
