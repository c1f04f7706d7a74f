package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the supported chat commands.
const HelpText = `Commands:
/sell <qty> <item> - record a sale
/restock <qty> <item> - add stock
/stock [item] - stock levels
/today - today's sales
/report [7|14|30|90|all] - daily sales report`

// CatalogAdapter defines the catalog functions required by the dispatcher.
type CatalogAdapter interface {
	List(ctx context.Context, filter models.ItemFilter) []models.Item
	FindByName(ctx context.Context, name string) (models.Item, error)
	Restock(ctx context.Context, id string, quantity int) (models.Item, error)
}

// SalesAdapter defines the sales functions required by the dispatcher.
type SalesAdapter interface {
	Record(ctx context.Context, itemID string, quantity string) (models.Sale, error)
	ListByDate(ctx context.Context, date string) (models.DaySales, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	DailyReport(ctx context.Context, q reporting.Query) models.SalesReport
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	catalog   CatalogAdapter
	sales     SalesAdapter
	reporting ReportingAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(catalog CatalogAdapter, sales SalesAdapter, reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:   catalog,
		sales:     sales,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs cmd against the shop and describes the outcome.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandSell:
		qty, name, err := quantityAndName(cmd.Args)
		if err != nil {
			return "", err
		}
		item, err := s.catalog.FindByName(ctx, name)
		if err != nil {
			return "", err
		}
		sale, err := s.sales.Record(ctx, item.ID, qty)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sold %d x %s @ %.2f = %.2f. %d left in stock.", sale.Quantity, sale.ItemName, sale.Price, sale.Total, item.Stock-sale.Quantity), nil
	case models.CommandRestock:
		qty, name, err := quantityAndName(cmd.Args)
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(qty)
		if err != nil {
			return "", models.ErrInvalidQuantity
		}
		item, err := s.catalog.FindByName(ctx, name)
		if err != nil {
			return "", err
		}
		item, err = s.catalog.Restock(ctx, item.ID, n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s restocked by %d. %d in stock.", item.Name, n, item.Stock), nil
	case models.CommandStock:
		if len(cmd.Args) > 0 {
			item, err := s.catalog.FindByName(ctx, strings.Join(cmd.Args, " "))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s: %d in stock at %.2f.", item.Name, item.Stock, item.Price), nil
		}
		items := s.catalog.List(ctx, models.ItemFilter{})
		if len(items) == 0 {
			return "No items in the catalog.", nil
		}
		var b strings.Builder
		b.WriteString("Stock:")
		for _, item := range items {
			fmt.Fprintf(&b, "\n%s: %d", item.Name, item.Stock)
		}
		return b.String(), nil
	case models.CommandToday:
		day, err := s.sales.ListByDate(ctx, "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Today (%s): %d sales, total %.2f.", day.Date, len(day.Sales), day.Total), nil
	case models.CommandReport:
		window := ""
		if len(cmd.Args) > 0 {
			window = cmd.Args[0]
		}
		w, err := reporting.ParseWindow(window)
		if err != nil {
			return "", err
		}
		q := reporting.DefaultQuery()
		q.Window = w
		return reporting.FormatSalesReport(s.reporting.DailyReport(ctx, q)), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// quantityAndName splits "<qty> <item name...>".
func quantityAndName(args []string) (string, string, error) {
	if len(args) < 2 {
		return "", "", ErrInvalidArguments
	}
	return args[0], strings.Join(args[1:], " "), nil
}
