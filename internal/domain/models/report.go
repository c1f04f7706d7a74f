package models

import "time"

// DailySales is the rollup of every sale sharing one calendar date.
type DailySales struct {
	Date             string  `json:"date"`
	TotalRevenue     float64 `json:"totalRevenue"`
	ItemsSold        int     `json:"itemsSold"`
	TransactionCount int     `json:"transactionCount"`
	Sales            []Sale  `json:"sales"`
}

// ReportSummary totals a list of daily rollups.
type ReportSummary struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalItemsSold      int     `json:"totalItemsSold"`
	TotalTransactions   int     `json:"totalTransactions"`
	AverageDailyRevenue float64 `json:"averageDailyRevenue"`
	Days                int     `json:"days"`
}

// DailyReport is the snapshot produced when a business day is closed.
type DailyReport struct {
	Date             string    `bson:"date" json:"date"`
	Revenue          float64   `bson:"revenue" json:"revenue"`
	ItemsSold        int       `bson:"items_sold" json:"items_sold"`
	TransactionCount int       `bson:"transaction_count" json:"transaction_count"`
	LowStockItems    []string  `bson:"low_stock_items" json:"low_stock_items"`
	InventoryValue   float64   `bson:"inventory_value" json:"inventory_value"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// Dashboard gives an at-a-glance view of the shop.
type Dashboard struct {
	TotalItems        int     `json:"totalItems"`
	TotalUnits        int     `json:"totalUnits"`
	InventoryValue    float64 `json:"inventoryValue"`
	LowStockItems     []Item  `json:"lowStockItems"`
	OutOfStockItems   []Item  `json:"outOfStockItems"`
	TodayRevenue      float64 `json:"todayRevenue"`
	TodayItemsSold    int     `json:"todayItemsSold"`
	TodayTransactions int     `json:"todayTransactions"`
	RecentSales       []Sale  `json:"recentSales"`
}

// SalesReport is the response of a daily sales report query.
type SalesReport struct {
	Range   string        `json:"range"`
	SortBy  string        `json:"sortBy"`
	Order   string        `json:"order"`
	Days    []DailySales  `json:"days"`
	Summary ReportSummary `json:"summary"`
}
