package reporting

import (
	"strconv"
	"strings"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// Window is the trailing number of days a report covers. Zero means every day.
type Window int

// Supported report windows.
const (
	WindowAll       Window = 0
	WindowWeek      Window = 7
	WindowFortnight Window = 14
	WindowMonth     Window = 30
	WindowQuarter   Window = 90
)

// SortBy selects the key daily rollups are ordered by.
type SortBy string

const (
	SortByDate    SortBy = "date"
	SortByRevenue SortBy = "revenue"
)

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Query selects and orders daily rollups.
type Query struct {
	Window Window
	SortBy SortBy
	Order  Order
}

// DefaultQuery is the last week, newest first.
func DefaultQuery() Query {
	return Query{Window: WindowWeek, SortBy: SortByDate, Order: OrderDesc}
}

// String renders the window the way callers pass it.
func (w Window) String() string {
	if w == WindowAll {
		return "all"
	}
	return strconv.Itoa(int(w))
}

// ParseWindow accepts "7", "14", "30", "90" or "all". Empty means the last week.
func ParseWindow(value string) (Window, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "":
		return WindowWeek, nil
	case "all":
		return WindowAll, nil
	}

	days, err := strconv.Atoi(value)
	if err != nil {
		return 0, models.ErrInvalidWindow
	}
	switch w := Window(days); w {
	case WindowWeek, WindowFortnight, WindowMonth, WindowQuarter:
		return w, nil
	}
	return 0, models.ErrInvalidWindow
}

// ParseSortBy accepts "date" or "revenue". Empty means date.
func ParseSortBy(value string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByRevenue:
		return SortByRevenue, nil
	}
	return "", models.ErrInvalidSort
}

// ParseOrder accepts "asc" or "desc". Empty means desc.
func ParseOrder(value string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(value))) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	}
	return "", models.ErrInvalidSort
}

// ParseQuery builds a Query from caller-supplied strings.
func ParseQuery(window, sortBy, order string) (Query, error) {
	w, err := ParseWindow(window)
	if err != nil {
		return Query{}, err
	}
	s, err := ParseSortBy(sortBy)
	if err != nil {
		return Query{}, err
	}
	o, err := ParseOrder(order)
	if err != nil {
		return Query{}, err
	}
	return Query{Window: w, SortBy: s, Order: o}, nil
}
