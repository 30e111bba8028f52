package remote

import (
	"context"
	"encoding/json"
	"net/http"
)

// Resource names of the shopping list API.
const (
	ResourceCategory     = "category"
	ResourceItem         = "item"
	ResourceItemCategory = "itemCategory"
	ResourceShoppingList = "shoppingList"
	ResourceListItem     = "shoppingListItem"
	ResourceListRows     = "shoppingListItemsWithCategory"
	ResourceTodo         = "todo"
)

// Collection is a typed view of one REST resource.
type Collection[T any] struct {
	client   *Client
	resource string
}

func NewCollection[T any](c *Client, resource string) *Collection[T] {
	return &Collection[T]{client: c, resource: resource}
}

func (col *Collection[T]) Resource() string { return col.resource }

func (col *Collection[T]) List(ctx context.Context, q Query) ([]T, error) {
	var env envelope[T]
	if err := col.client.do(ctx, OpList, http.MethodGet, col.resource, "", q.values(), nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

// Get fetches one record; the server answers with a one-element envelope.
func (col *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var env envelope[T]
	if err := col.client.do(ctx, OpGet, http.MethodGet, col.resource, id, nil, nil, &env); err != nil {
		return zero, err
	}
	if len(env.Data) == 0 {
		return zero, &Error{Resource: col.resource, Op: OpGet, Kind: ServerRejection, Status: http.StatusNotFound, Message: "not found"}
	}
	return env.Data[0], nil
}

// Create submits one or more records in a single call and returns the
// assigned ids in payload order.
func (col *Collection[T]) Create(ctx context.Context, payloads ...T) ([]string, error) {
	if len(payloads) == 0 {
		return nil, nil
	}
	refs := make([]string, len(payloads))
	bodies := make([]json.RawMessage, len(payloads))
	for i, p := range payloads {
		refs[i] = col.client.newRef()
		b, err := withRef(p, refs[i])
		if err != nil {
			return nil, &Error{Resource: col.resource, Op: OpCreate, Kind: InvalidResponse, Err: err}
		}
		bodies[i] = b
	}

	var body any = bodies
	if len(bodies) == 1 {
		body = bodies[0]
	}

	var env envelope[json.RawMessage]
	if err := col.client.do(ctx, OpCreate, http.MethodPost, col.resource, "", nil, body, &env); err != nil {
		return nil, err
	}
	ids, err := correlate(refs, env)
	if err != nil {
		return nil, &Error{Resource: col.resource, Op: OpCreate, Kind: InvalidResponse, Err: err}
	}
	return ids, nil
}

func (col *Collection[T]) Update(ctx context.Context, id string, payload T) error {
	return col.client.do(ctx, OpUpdate, http.MethodPut, col.resource, id, nil, payload, nil)
}

// Patch sends a partial document, e.g. map[string]any{"isPurchased": true}.
func (col *Collection[T]) Patch(ctx context.Context, id string, partial any) error {
	return col.client.do(ctx, OpPatch, http.MethodPatch, col.resource, id, nil, partial, nil)
}

func (col *Collection[T]) Remove(ctx context.Context, id string) error {
	return col.client.do(ctx, OpRemove, http.MethodDelete, col.resource, id, nil, nil, nil)
}
