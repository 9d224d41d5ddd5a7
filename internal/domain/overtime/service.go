package overtime

import "context"

type OvertimeService interface {
	// Calculate recomputes the split for a subject and stores it on the period balance.
	Calculate(ctx context.Context, req CalculateRequest) (CalculationResponse, error)
	// GetBalance returns the balance for period (default: current ISO week), creating it zeroed.
	GetBalance(ctx context.Context, userID string, period *string) (BalanceResponse, error)

	GetDefaultRule(ctx context.Context) (RuleResponse, error)
	ReplaceDefaultRule(ctx context.Context, req RuleRequest) (RuleResponse, error)

	CreateRequest(ctx context.Context, req CreateOvertimeRequestRequest) (RequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestResponse, error)
	DecideRequest(ctx context.Context, req DecideOvertimeRequestRequest) (ApprovalResult, error)
}
