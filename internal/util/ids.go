package util

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewQAID returns an identifier for a generated QA record, prefixed with
// the tier marker used in the dataset output (e.g. "L1_", "LC_").
func NewQAID(prefix string) (string, error) {
	id, err := gonanoid.New(12)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}
