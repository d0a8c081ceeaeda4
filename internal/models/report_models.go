package models

// DashboardSummary is the per-gym dashboard view. Every figure is recomputed
// from the ledger on each request; nothing here is persisted.
type DashboardSummary struct {
	TotalMembers        int     `json:"total_members"`
	ActiveMembers       int     `json:"active_members"`
	ExpiringMembers     int     `json:"expiring_members"`
	ExpiredMembers      int     `json:"expired_members"`
	TotalOutstanding    float64 `json:"total_outstanding"`
	RevenueThisMonth    float64 `json:"revenue_this_month"`
	RevenueThisYear     float64 `json:"revenue_this_year"`
	RevenueAllTime      float64 `json:"revenue_all_time"`
	InsuranceRevenue    float64 `json:"insurance_revenue"` // ledger-accurate sum of INSURANCE_PAYMENT entries
	InsuredMemberCount  int     `json:"insured_member_count"`
	PendingRequestCount int     `json:"pending_request_count"`
}

// RevenueReport is the result of a period revenue query.
type RevenueReport struct {
	Start            string  `json:"start"`
	End              string  `json:"end"`
	Total            float64 `json:"total"`
	DebtPayments     float64 `json:"debt_payments"`
	InitialPayments  float64 `json:"initial_payments"`
	InsuranceRevenue float64 `json:"insurance_revenue"`
}
