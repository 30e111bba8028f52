package suggest

import (
	"testing"

	"github.com/dukerupert/shoplist/internal/model"
)

var userCategories = []model.Category{
	{ID: "1", Name: "Dairy"},
	{ID: "2", Name: "Meat & Fish"},
	{ID: "3", Name: "Frozen"},
	{ID: "4", Name: "Drinks"},
	{ID: "5", Name: "Fruit"},
	{ID: "6", Name: "Tea"},
}

func TestCategoryByKeyword(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"milk", "Dairy"},
		{"Greek Yogurt cups", "Dairy"},
		{"chicken breast", "Meat & Fish"},
		{"ice cream", "Frozen"},
		{"sparkling water", "Drinks"},
		{"bananas", "Fruit"},
	}
	for _, tt := range tests {
		got, ok := Category(tt.input, userCategories)
		if !ok {
			t.Errorf("Category(%q) found nothing, want %q", tt.input, tt.want)
			continue
		}
		if got.Name != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.input, got.Name, tt.want)
		}
	}
}

func TestCategoryNameInItemName(t *testing.T) {
	got, ok := Category("green tea", userCategories)
	if !ok || got.ID != "6" {
		t.Errorf("Category(green tea) = %+v, %v, want Tea", got, ok)
	}

	got, ok = Category("frozen peas", userCategories)
	if !ok || got.Name != "Frozen" {
		t.Errorf("Category(frozen peas) = %+v, %v, want Frozen", got, ok)
	}
}

func TestCategoryWordBoundary(t *testing.T) {
	got, ok := Category("steak", userCategories)
	if !ok || got.Name != "Meat & Fish" {
		t.Errorf("Category(steak) = %+v, %v, want Meat & Fish", got, ok)
	}
}

func TestCategoryNoMatch(t *testing.T) {
	for _, input := range []string{"", "   ", "widget", "shampoo"} {
		if got, ok := Category(input, userCategories); ok {
			t.Errorf("Category(%q) = %+v, want no match", input, got)
		}
	}
	if _, ok := Category("milk", nil); ok {
		t.Error("Category with no categories should not match")
	}
}
