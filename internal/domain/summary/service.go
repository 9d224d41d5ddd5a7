package summary

import "context"

type SummaryService interface {
	// GetSummary returns the summary of userID, or of the caller when userID is empty.
	GetSummary(ctx context.Context, userID string) (TimeSummaryResponse, error)
}
