package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/model"
)

// Line is one quantity of an item on a shopping list.
type Line interface {
	LineQuantity() int
	Purchased() bool
	UnitPrice() float64
}

func TotalQuantity[T Line](lines []T) int {
	total := 0
	for _, l := range lines {
		total += l.LineQuantity()
	}
	return total
}

// RemainingQuantity sums the quantities not yet purchased.
func RemainingQuantity[T Line](lines []T) int {
	remaining := 0
	for _, l := range lines {
		if !l.Purchased() {
			remaining += l.LineQuantity()
		}
	}
	return remaining
}

// TotalCost is the sum of price × quantity; a missing price counts as 0.
func TotalCost[T Line](lines []T) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		price := decimal.NewFromFloat(l.UnitPrice())
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.LineQuantity()))))
	}
	return total
}

type Summary struct {
	Total     int
	Remaining int
	Cost      decimal.Decimal
}

func Summarize[T Line](lines []T) Summary {
	return Summary{
		Total:     TotalQuantity(lines),
		Remaining: RemainingQuantity(lines),
		Cost:      TotalCost(lines),
	}
}

// SummarizeList totals a list fetched with its lines included.
func SummarizeList(l model.ShoppingList) Summary {
	return Summarize(l.ShoppingListItem)
}

// AvailableItems returns the catalogue items that are not already on the
// list described by rows.
func AvailableItems(all []model.Item, rows []model.ListRow) []model.Item {
	out := make([]model.Item, 0, len(all))
	for _, it := range all {
		onList := false
		for _, r := range rows {
			if model.SameID(r.ItemID, it.ID) {
				onList = true
				break
			}
		}
		if !onList {
			out = append(out, it)
		}
	}
	return out
}
