package summary

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/sitescoop/internal/models"
)

// summaryRecordLimit caps how many records go into the summary prompt.
const summaryRecordLimit = 50

func marshalRecords(records []models.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no data to summarize")
	}
	if len(records) > summaryRecordLimit {
		records = records[:summaryRecordLimit]
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to serialize records for summary: %w", err)
	}
	return string(data), nil
}
