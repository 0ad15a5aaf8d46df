// Package extract parses free-form model output into typed records.
//
// The model is instructed to return only a JSON array, but in practice it
// wraps the payload in prose or a code fence. Extraction is best-effort:
// any text without a parseable bracketed array yields an empty result,
// never an error, so one bad transcription cannot fail a whole batch.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/vrushal1018/points-table-system/internal/domain/model"
)

// Slots extracts slot roster records from model output.
func Slots(text string) []model.SlotRecord {
	var records []model.SlotRecord
	if !decodeArray(text, &records) {
		return nil
	}
	return records
}

// Results extracts placement result records from model output.
func Results(text string) []model.ResultRecord {
	var records []model.ResultRecord
	if !decodeArray(text, &records) {
		return nil
	}
	return records
}

// decodeArray locates the bracketed array region in text and unmarshals it
// into target. Returns false when no region exists or parsing fails.
func decodeArray(text string, target any) bool {
	payload := arrayRegion(text)
	if payload == "" {
		return false
	}
	return json.Unmarshal([]byte(payload), target) == nil
}

// arrayRegion returns the substring bounded by the first '[' and the last
// ']' in text, after stripping a surrounding markdown code fence if present.
func arrayRegion(text string) string {
	trimmed := stripCodeFence(strings.TrimSpace(text))
	start := strings.Index(trimmed, "[")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "]")
	if end <= start {
		return ""
	}
	return trimmed[start : end+1]
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimLeft(text[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = strings.TrimLeft(body[4:], " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
