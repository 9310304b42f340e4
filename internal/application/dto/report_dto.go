package dto

// DailyStatsResponse resumen del día [00:00, 24:00) UTC.
type DailyStatsResponse struct {
	Fecha          string `json:"fecha"` // YYYY-MM-DD
	TotalOrders    int    `json:"total_orders"`
	TotalSales     string `json:"total_sales"`
	TotalCollected string `json:"total_collected"`
	PaymentsCount  int    `json:"payments_count"`
	PaidOrders     int    `json:"paid_orders"`
	PendingOrders  int    `json:"pending_orders"`
}

// PendingSummaryResponse pedidos con saldo.
type PendingSummaryResponse struct {
	Count       int    `json:"count"`
	TotalAmount string `json:"total_amount"` // Σ (total - total_pagado)
}

// MonthlyStatsResponse resumen del mes calendario (UTC).
type MonthlyStatsResponse struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	TotalOrders    int    `json:"total_orders"`
	TotalSales     string `json:"total_sales"`
	TotalCollected string `json:"total_collected"`
}
