// Package page holds the per-page controllers of the shopping list client.
//
// Each controller owns one state record (ItemsState, CategoriesState,
// ListsState, DetailState, TodosState). State only changes through the
// page's pure reducer, and only after the server has confirmed the call that
// motivates the change. Every outcome is reported through a Notifier.
//
// Controllers are not safe for concurrent use; drive each from one goroutine.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/remote"
)

// Store is the subset of remote.Collection a controller needs.
type Store[T any] interface {
	List(ctx context.Context, q remote.Query) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payloads ...T) ([]string, error)
	Update(ctx context.Context, id string, payload T) error
	Patch(ctx context.Context, id string, partial any) error
	Remove(ctx context.Context, id string) error
}

type Backend struct {
	Categories     Store[model.Category]
	Items          Store[model.Item]
	ItemCategories Store[model.ItemCategory]
	Lists          Store[model.ShoppingList]
	ListItems      Store[model.ShoppingListItem]
	ListRows       Store[model.ListRow]
	Todos          Store[model.TodoItem]
}

func FromAPI(api *remote.API) Backend {
	return Backend{
		Categories:     api.Categories,
		Items:          api.Items,
		ItemCategories: api.ItemCategories,
		Lists:          api.Lists,
		ListItems:      api.ListItems,
		ListRows:       api.ListRows,
		Todos:          api.Todos,
	}
}

// Notifier receives the single user-facing outcome of an action.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Deps struct {
	Backend Backend
	Notify  Notifier
	Logger  *slog.Logger
}

type base struct {
	backend Backend
	notify  Notifier
	logger  *slog.Logger
}

func newBase(d Deps, component string) base {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		backend: d.Backend,
		notify:  d.Notify,
		logger:  logger.With("component", component),
	}
}

func (b base) ok(msg string) {
	b.notify.Success(msg)
}

// fail reports err to the user with msg and returns it wrapped with op.
func (b base) fail(op string, err error, msg string) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		b.logger.Warn(op+" failed", "error", err)
	}
	b.notify.Error(userMessage(err, msg))
	return fmt.Errorf("%s: %w", op, err)
}

// userMessage picks the text shown for err: validation problems and
// authorization failures speak for themselves, anything else gets msg.
func userMessage(err error, msg string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	switch remote.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Unauthorized"
	}
	return msg
}

var includeItemCategory = remote.Query{PageSize: remote.MaxPageSize, Include: []string{"itemCategory"}}
