package models

const (
	// DateLayout is the calendar date format stored on every sale.
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format stored on every sale.
	TimeLayout = "15:04:05"
)

// Sale is an immutable record of one completed transaction.
//
// ItemID is a weak reference: the item may have been edited or deleted since
// the sale, so ItemName and Price hold the values at the time of sale.
type Sale struct {
	ID       string  `json:"id"`
	ItemID   string  `json:"itemId"`
	ItemName string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
}

// DaySales lists the sales recorded on one calendar date.
type DaySales struct {
	Date  string  `json:"date"`
	Sales []Sale  `json:"sales"`
	Total float64 `json:"total"`
}
