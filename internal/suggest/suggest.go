// Package suggest guesses which of the user's categories a new item belongs
// to, from the item's name alone.
package suggest

import (
	"sort"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

// aisle is a family of products and the category names people commonly file
// it under.
type aisle struct {
	aliases  []string
	keywords []string
}

var aisles = []aisle{
	{
		aliases:  []string{"produce", "fruit", "vegetables", "fruit & vegetables", "greens"},
		keywords: []string{"apple", "banana", "orange", "lemon", "lime", "avocado", "tomato", "potato", "onion", "garlic", "lettuce", "spinach", "kale", "broccoli", "carrot", "celery", "cucumber", "pepper", "mushroom", "grape", "berries", "berry", "melon", "pineapple", "mango", "peach", "pear", "cilantro", "basil", "parsley", "ginger", "zucchini", "asparagus"},
	},
	{
		aliases:  []string{"dairy", "milk & eggs", "dairy & eggs", "fridge", "chilled"},
		keywords: []string{"milk", "cheese", "yogurt", "yoghurt", "butter", "cream", "egg", "cottage", "sour cream", "half and half", "creamer"},
	},
	{
		aliases:  []string{"meat", "meat & seafood", "meat & fish", "butcher", "fish", "seafood", "deli"},
		keywords: []string{"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham", "steak", "mince", "ground", "salmon", "tuna", "shrimp", "fish", "lamb", "salami"},
	},
	{
		aliases:  []string{"bakery", "bread", "baked goods"},
		keywords: []string{"bread", "bagel", "bun", "roll", "tortilla", "croissant", "muffin", "baguette", "pita", "cake", "donut"},
	},
	{
		aliases:  []string{"frozen", "freezer", "frozen food"},
		keywords: []string{"frozen", "ice cream", "popsicle", "ice"},
	},
	{
		aliases:  []string{"pantry", "dry goods", "groceries", "canned goods", "baking"},
		keywords: []string{"rice", "pasta", "noodle", "flour", "sugar", "oil", "vinegar", "salt", "spice", "sauce", "cereal", "oat", "granola", "bean", "lentil", "broth", "stock", "soup", "canned", "honey", "syrup", "peanut butter", "jam", "ketchup", "mustard", "mayo"},
	},
	{
		aliases:  []string{"beverages", "drinks", "beverage"},
		keywords: []string{"coffee", "tea", "juice", "soda", "water", "beer", "wine", "drink", "lemonade", "cola"},
	},
	{
		aliases:  []string{"snacks", "sweets", "candy"},
		keywords: []string{"chip", "crisps", "cracker", "cookie", "biscuit", "popcorn", "pretzel", "candy", "chocolate", "snack", "nuts", "trail mix"},
	},
	{
		aliases:  []string{"household", "cleaning", "home"},
		keywords: []string{"paper towel", "toilet paper", "trash bag", "garbage bag", "dish soap", "laundry", "detergent", "cleaner", "sponge", "foil", "plastic wrap", "battery", "batteries", "light bulb"},
	},
	{
		aliases:  []string{"personal care", "toiletries", "health & beauty", "pharmacy", "hygiene"},
		keywords: []string{"shampoo", "conditioner", "toothpaste", "toothbrush", "deodorant", "lotion", "sunscreen", "razor", "tissue", "soap", "floss", "band-aid", "vitamin"},
	},
}

type keyword struct {
	word  string
	aisle int
}

// byLength holds every keyword, longest first, so "ice cream" wins over "cream".
var byLength = func() []keyword {
	var out []keyword
	for i, a := range aisles {
		for _, w := range a.keywords {
			out = append(out, keyword{word: w, aisle: i})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].word) > len(out[j].word) })
	return out
}()

// Category returns the category in categories that itemName most likely
// belongs to. A category whose own name appears in the item name wins;
// otherwise the keyword table picks an aisle and the first category named
// after that aisle is returned. ok is false when nothing matches.
func Category(itemName string, categories []model.Category) (c model.Category, ok bool) {
	name := normalize(itemName)
	if name == "" || len(categories) == 0 {
		return model.Category{}, false
	}

	for _, cat := range categories {
		if n := normalize(cat.Name); n != "" && containsWord(name, n) {
			return cat, true
		}
	}

	// Only the longest keyword counts: "shampoo" must not fall through to "ham".
	for _, kw := range byLength {
		if strings.Contains(name, kw.word) {
			return byAlias(aisles[kw.aisle], categories)
		}
	}
	return model.Category{}, false
}

func byAlias(a aisle, categories []model.Category) (model.Category, bool) {
	for _, cat := range categories {
		n := normalize(cat.Name)
		for _, alias := range a.aliases {
			if n == alias {
				return cat, true
			}
		}
	}
	return model.Category{}, false
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// containsWord reports whether phrase occurs in s on word boundaries, so a
// category called "Tea" does not claim "steak".
func containsWord(s, phrase string) bool {
	padded := " " + s + " "
	return strings.Contains(padded, " "+phrase+" ") ||
		strings.Contains(padded, " "+phrase+"s ")
}
