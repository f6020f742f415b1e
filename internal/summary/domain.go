package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is the persisted statistics snapshot of one business for one day.
type DailySummary struct {
	BusinessID       int64           `json:"businessId"`
	Day              time.Time       `json:"day"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int64           `json:"transactionCount"`
	SyncedAt         time.Time       `json:"syncedAt"`
}

// Report describes one SyncAll run.
type Report struct {
	Day        string `json:"day"`
	Businesses int    `json:"businesses"`
	Synced     int    `json:"synced"`
	Failed     int    `json:"failed"`
}
