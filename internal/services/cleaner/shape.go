package cleaner

import (
	"fmt"

	"github.com/ternarybob/sitescoop/internal/models"
)

// Shape preservation is a checked post-condition, not an assumption. The
// prompts instruct the model to keep the structure, but every cleaned value
// is verified here before it replaces the original.

// verifyListShape rejects cleaned URL lists that grew. Cleaning may only
// drop duplicates and junk, never invent entries.
func verifyListShape(original, cleaned []string) error {
	if len(cleaned) > len(original) {
		return &models.CleaningFailedError{
			Reason: fmt.Sprintf("cleaned list grew from %d to %d entries", len(original), len(cleaned)),
		}
	}
	return nil
}

// verifyTableShape rejects any change to table, row or column counts.
func verifyTableShape(original, cleaned [][][]string) error {
	if len(cleaned) != len(original) {
		return &models.CleaningFailedError{
			Reason: fmt.Sprintf("table count changed from %d to %d", len(original), len(cleaned)),
		}
	}
	for i := range original {
		if len(cleaned[i]) != len(original[i]) {
			return &models.CleaningFailedError{
				Reason: fmt.Sprintf("table %d row count changed from %d to %d", i, len(original[i]), len(cleaned[i])),
			}
		}
		for j := range original[i] {
			if len(cleaned[i][j]) != len(original[i][j]) {
				return &models.CleaningFailedError{
					Reason: fmt.Sprintf("table %d row %d column count changed from %d to %d", i, j, len(original[i][j]), len(cleaned[i][j])),
				}
			}
		}
	}
	return nil
}

// verifyRecordShape rejects cleaned record sets that add, drop or reorder
// records. IDs anchor the ordering check.
func verifyRecordShape(original, cleaned []models.Record) error {
	if len(cleaned) != len(original) {
		return &models.CleaningFailedError{
			Reason: fmt.Sprintf("record count changed from %d to %d", len(original), len(cleaned)),
		}
	}
	for i := range original {
		if cleaned[i].ID != original[i].ID {
			return &models.CleaningFailedError{
				Reason: fmt.Sprintf("record %d id changed from %q to %q", i, original[i].ID, cleaned[i].ID),
			}
		}
	}
	return nil
}
