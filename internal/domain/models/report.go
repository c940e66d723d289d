package models

import "time"

// ReportSnapshot is the persisted trace of one scheduled or on-demand report
// run. Only the headline figures are stored; the full payload is recomputed
// from source records whenever it is needed, so the snapshot can never drift.
type ReportSnapshot struct {
	OperationID      string    `bson:"operation_id" json:"operation_id"`
	GeneratedAt      time.Time `bson:"generated_at" json:"generated_at"`
	TotalUnits       int       `bson:"total_units" json:"total_units"`
	ActiveUnits      int       `bson:"active_units" json:"active_units"`
	TotalExpenses    string    `bson:"total_expenses" json:"total_expenses"`
	TotalRevenue     string    `bson:"total_revenue" json:"total_revenue"`
	ProjectedRevenue string    `bson:"projected_revenue" json:"projected_revenue"`
	NetProfit        string    `bson:"net_profit" json:"net_profit"`
	AverageROI       float64   `bson:"average_roi" json:"average_roi"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
