package service

import "errors"

var (
	// ErrNoData signals that a whole batch produced zero records, after
	// every image either failed or transcribed to an empty list.
	ErrNoData = errors.New("no valid data extracted from images")

	// ErrNoTranscriber signals a service wired without a vision client.
	ErrNoTranscriber = errors.New("no transcriber configured")

	// ErrNoResults signals a points-table request with an empty result map.
	ErrNoResults = errors.New("no results to score")
)
