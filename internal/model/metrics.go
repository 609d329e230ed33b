package model

// AppliedFilters echoes the filter window a metrics computation ran under.
type AppliedFilters struct {
	Category  string `json:"category,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// DashboardMetrics is the per-base reconciliation result. The identity
//
//	closing_balance = opening_balance + purchases
//	                + transfers_in - transfers_out
//	                - assigned - expended
//
// holds exactly for every computed value. OpeningBalance reads current
// on-hand stock, not a period-start snapshot.
type DashboardMetrics struct {
	OpeningBalance int            `json:"opening_balance"`
	Purchases      int            `json:"purchases"`
	TransfersIn    int            `json:"transfers_in"`
	TransfersOut   int            `json:"transfers_out"`
	NetMovement    int            `json:"net_movement"`
	Assigned       int            `json:"assigned"`
	Expended       int            `json:"expended"`
	ClosingBalance int            `json:"closing_balance"`
	BaseID         string         `json:"base_id"`
	FiltersApplied AppliedFilters `json:"filters_applied"`
}
