package model

// RequestStatistics aggregates a user's borrow request history across both
// roles. The per-status counts combine sent (as borrower) and received (as
// lender) requests; TotalSent and TotalReceived are the raw role totals, so
// TotalSent+TotalReceived always equals the sum of the per-status counts.
type RequestStatistics struct {
	PendingCount   int `json:"pending_count"`
	ApprovedCount  int `json:"approved_count"`
	RejectedCount  int `json:"rejected_count"`
	ReturnedCount  int `json:"returned_count"`
	CompletedCount int `json:"completed_count"`
	TotalSent      int `json:"total_sent"`
	TotalReceived  int `json:"total_received"`
}
