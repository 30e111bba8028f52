package aggregate

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shoplist/internal/model"
)

func ptr(f float64) *float64 { return &f }

var catA = model.Category{ID: "A", Name: "Dairy", Icon: "egg e1"}

func milkAndBread() []model.Item {
	return []model.Item{
		{ID: "1", Name: "Milk", Price: ptr(2.5), ItemCategory: []model.ItemCategory{{ID: "j1", Category: model.Category{ID: "a"}}}},
		{ID: "2", Name: "Bread", Price: ptr(1.0)},
	}
}

func TestGroupByCategoryScenario(t *testing.T) {
	groups := GroupByCategory(milkAndBread(), []model.Category{catA})

	require.Len(t, groups, 2)
	assert.Equal(t, catA, groups[0].Category, "metadata comes from the category list")
	assert.False(t, groups[0].Uncategorized)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Milk", groups[0].Items[0].Name)

	assert.True(t, groups[1].Uncategorized)
	assert.Equal(t, model.UncategorizedID, groups[1].Category.ID)
	assert.Equal(t, model.UncategorizedName, groups[1].Category.Name)
	assert.Equal(t, model.DefaultIcon, groups[1].Category.Icon)
	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, "Bread", groups[1].Items[0].Name)
}

func TestGroupOrderFollowsFirstOccurrence(t *testing.T) {
	rows := []model.ListRow{
		{ShoppingListItemID: "1", CategoryID: "z", CategoryName: "Zeta"},
		{ShoppingListItemID: "2", CategoryID: "-1"},
		{ShoppingListItemID: "3", CategoryID: "A", CategoryName: "Alpha"},
		{ShoppingListItemID: "4", CategoryID: "Z", CategoryName: "Zeta"},
	}
	groups := GroupByCategory(rows, nil)

	require.Len(t, groups, 3)
	assert.Equal(t, "Zeta", groups[0].Category.Name)
	assert.Len(t, groups[0].Items, 2, "case-insensitive key")
	assert.True(t, groups[1].Uncategorized)
	assert.Equal(t, "Alpha", groups[2].Category.Name)
}

func TestMultiCategoryItemInEachGroup(t *testing.T) {
	items := []model.Item{{
		ID: "1", Name: "Cheese",
		ItemCategory: []model.ItemCategory{
			{Category: model.Category{ID: "A"}},
			{Category: model.Category{ID: "B"}},
			{Category: model.Category{ID: "a"}},
		},
	}}
	groups := GroupByCategory(items, nil)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Items, 1)
	assert.Len(t, groups[1].Items, 1)
}

func TestFilterEmptySelectionIsIdentity(t *testing.T) {
	items := milkAndBread()
	assert.Equal(t, items, FilterByCategories(items, nil))
	assert.Equal(t, items, FilterByCategories(items, []model.Category{}))

	var none []model.Item
	assert.Empty(t, FilterByCategories(none, nil))
}

func TestFilterScenario(t *testing.T) {
	got := FilterByCategories(milkAndBread(), []model.Category{catA})
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
}

func TestFilterUncategorizedSelection(t *testing.T) {
	got := FilterByCategories(milkAndBread(), []model.Category{model.NoCategory().Category})
	require.Len(t, got, 1)
	assert.Equal(t, "Bread", got[0].Name)
}

func TestGroupBySelection(t *testing.T) {
	catB := model.Category{ID: "B", Name: "Frozen"}
	groups := GroupBySelection(milkAndBread(), []model.Category{catA, catB}, []model.Category{catB, catA})

	require.Len(t, groups, 2)
	assert.Equal(t, "Frozen", groups[0].Category.Name)
	assert.Empty(t, groups[0].Items, "selected categories are shown even when empty")
	assert.Equal(t, "Dairy", groups[1].Category.Name)
	assert.Len(t, groups[1].Items, 1)

	all := GroupBySelection(milkAndBread(), []model.Category{catA}, nil)
	assert.Len(t, all, 2)
}

func TestDerivedCategories(t *testing.T) {
	rows := []model.ListRow{
		{CategoryID: "-1"},
		{CategoryID: "A", CategoryName: "Dairy"},
	}
	cats := DerivedCategories(rows)
	require.Len(t, cats, 2)
	assert.Equal(t, model.UncategorizedName, cats[0].Name)
	assert.Equal(t, "Dairy", cats[1].Name)
}

func TestTotals(t *testing.T) {
	lines := []model.ShoppingListItem{
		{Item: model.Item{Price: ptr(2.5)}, Quantity: 2},
		{Item: model.Item{Price: ptr(0.1)}, Quantity: 3, IsPurchased: true},
		{Item: model.Item{}, Quantity: 4},
	}
	assert.Equal(t, 9, TotalQuantity(lines))
	assert.Equal(t, 6, RemainingQuantity(lines))
	assert.True(t, decimal.RequireFromString("5.3").Equal(TotalCost(lines)), "got %s", TotalCost(lines))

	s := SummarizeList(model.ShoppingList{ShoppingListItem: lines})
	assert.Equal(t, 9, s.Total)
	assert.Equal(t, 6, s.Remaining)
	assert.Equal(t, "5.30", s.Cost.StringFixed(2))
}

func TestTotalsEmpty(t *testing.T) {
	var rows []model.ListRow
	s := Summarize(rows)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0, s.Remaining)
	assert.True(t, s.Cost.IsZero())
}

func TestRemainingNeverExceedsTotal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		var rows []model.ListRow
		anyPurchased := false
		size := r.Intn(10)
		for i := 0; i < size; i++ {
			purchased := r.Intn(2) == 0
			anyPurchased = anyPurchased || purchased
			rows = append(rows, model.ListRow{
				Quantity:    1 + r.Intn(5),
				IsPurchased: purchased,
				ItemPrice:   ptr(float64(r.Intn(1000)) / 100),
			})
		}
		total, remaining := TotalQuantity(rows), RemainingQuantity(rows)
		require.LessOrEqual(t, remaining, total)
		require.Equal(t, !anyPurchased, remaining == total)
		require.False(t, TotalCost(rows).IsNegative())
	}
}

func TestTogglingPurchasedLowersRemaining(t *testing.T) {
	rows := []model.ListRow{
		{ShoppingListItemID: "1", Quantity: 3},
		{ShoppingListItemID: "2", Quantity: 2},
	}
	before := RemainingQuantity(rows)
	rows[0].IsPurchased = true
	assert.Equal(t, before-3, RemainingQuantity(rows))
}

func TestAvailableItems(t *testing.T) {
	all := milkAndBread()
	rows := []model.ListRow{{ItemID: "1"}}
	got := AvailableItems(all, rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Bread", got[0].Name)
}
