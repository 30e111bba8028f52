package model

import (
	"strconv"
	"strings"
)

type ListStatus string

const (
	StatusActive    ListStatus = "active"
	StatusCompleted ListStatus = "completed"
)

func (s ListStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

type ShoppingList struct {
	ID               string             `json:"id,omitempty"`
	Name             string             `json:"name"`
	Status           ListStatus         `json:"status"`
	Comment          string             `json:"comment,omitempty"`
	ShoppingListItem []ShoppingListItem `json:"shoppingListItem,omitempty"`
}

func (l ShoppingList) EntityID() string { return l.ID }

func (l ShoppingList) WithID(id string) ShoppingList {
	l.ID = id
	return l
}

type ShoppingListItem struct {
	ID           string        `json:"id,omitempty"`
	Item         Item          `json:"item"`
	ShoppingList *ShoppingList `json:"shoppingList,omitempty"`
	Comment      string        `json:"comment,omitempty"`
	IsPurchased  bool          `json:"isPurchased"`
	Quantity     int           `json:"quantity"`
}

func (li ShoppingListItem) EntityID() string   { return li.ID }
func (li ShoppingListItem) LineQuantity() int  { return li.Quantity }
func (li ShoppingListItem) Purchased() bool    { return li.IsPurchased }
func (li ShoppingListItem) UnitPrice() float64 { return li.Item.PriceValue() }

func (li ShoppingListItem) WithID(id string) ShoppingListItem {
	li.ID = id
	return li
}

// ClampQuantity parses user input as a line quantity. Anything that is not a
// positive integer becomes 1.
func ClampQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
