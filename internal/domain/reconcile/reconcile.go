// Package reconcile merges per-image record lists into one canonical
// collection.
//
// The two record kinds deliberately reconcile differently. Slot numbers are
// globally unique on a slot sheet, so duplicate slot records across images
// are re-reads of the same roster entry and the first read wins. Ranks on
// result sheets legitimately repeat across photographed pages (each page
// restarts at rank 1), so colliding result records must all survive under
// synthesized keys.
package reconcile

import (
	"strconv"

	"github.com/vrushal1018/points-table-system/internal/domain/model"
)

// Slots collapses a flattened slot record sequence by slot number,
// keeping the first-seen record for each SlotNo. Input order is preserved.
func Slots(records []model.SlotRecord) []model.SlotRecord {
	if len(records) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(records))
	unique := make([]model.SlotRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.SlotNo]; ok {
			continue
		}
		seen[rec.SlotNo] = struct{}{}
		unique = append(unique, rec)
	}
	return unique
}

// Results builds the canonical result collection keyed by rank. A key
// collision does not discard: the colliding record is stored under
// "<rank>_1", "<rank>_2", ... so every record from every image survives
// into scoring.
func Results(records []model.ResultRecord) map[string]model.ResultRecord {
	if len(records) == 0 {
		return nil
	}
	results := make(map[string]model.ResultRecord, len(records))
	for _, rec := range records {
		key := strconv.Itoa(rec.Rank)
		for counter := 0; ; counter++ {
			if counter > 0 {
				key = strconv.Itoa(rec.Rank) + "_" + strconv.Itoa(counter)
			}
			if _, taken := results[key]; !taken {
				break
			}
		}
		results[key] = rec
	}
	return results
}
