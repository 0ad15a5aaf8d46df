// Package model contains domain models passed between pipeline stages.
package model

// Image is one uploaded standings photograph, held in memory for the
// duration of a single analysis request.
type Image struct {
	Name string // original filename, for logs only
	MIME string // content type reported by the upload, e.g. "image/jpeg"
	Data []byte // raw image bytes
}

// SlotRecord is one roster entry read from a pre-match slot sheet.
// Identity key: SlotNo.
type SlotRecord struct {
	SlotNo      int      `json:"slot_no"`
	TeamMembers []string `json:"team_members"`
}

// ResultRecord is one team's placement outcome read from a post-match
// results sheet. Ranks may collide across images; the canonical collection
// keys records by a disambiguated string key rather than raw rank.
//
// TotalFinishes as reported by the model is not trusted: scoring recomputes
// it from Finishes. PositionPoints and TotalPoints are filled by scoring.
type ResultRecord struct {
	Rank           int      `json:"rank"`
	TeamMembers    []string `json:"team_members"`
	Finishes       []int    `json:"finishes"`
	TotalFinishes  int      `json:"total_finishes"`
	PositionPoints int      `json:"position_points,omitempty"`
	TotalPoints    int      `json:"total_points,omitempty"`
}
