package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/shoplist/internal/filter"
	"github.com/dukerupert/shoplist/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	n := 0
	return NewClient(Config{
		BaseURL: srv.URL + "/api/",
		Token:   "secret",
		NewRef: func() string {
			n++
			return fmt.Sprintf("ref-%d", n)
		},
	})
}

func TestListSendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/item", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "itemCategory", r.URL.Query().Get("include"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"id":"1","name":"Milk","price":2.5,"itemCategory":[{"id":"j1","category":{"id":"A","name":"Dairy"}}]}]}`))
	})

	items, err := NewCollection[model.Item](c, ResourceItem).List(context.Background(), Query{
		PageSize: 5000,
		Include:  []string{"itemCategory"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, 2.5, items[0].PriceValue())
	assert.True(t, items[0].HasCategory("a"))
}

func TestListFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `listId eq "L1"`, r.URL.Query().Get("filter"))
		w.Write([]byte(`{"data":[]}`))
	})
	rows, err := NewCollection[model.ListRow](c, ResourceListRows).List(context.Background(), Query{
		Filter: filter.Eq("listId", "L1"),
	})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListNullData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	})
	cats, err := NewCollection[model.Category](c, ResourceCategory).List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []model.Category{}, cats)
}

func TestServerRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"category in use"}`))
	})
	err := NewCollection[model.Category](c, ResourceCategory).Remove(context.Background(), "A")
	require.Error(t, err)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ServerRejection, re.Kind)
	assert.Equal(t, OpRemove, re.Op)
	assert.Equal(t, ResourceCategory, re.Resource)
	assert.Equal(t, http.StatusConflict, re.Status)
	assert.Equal(t, "category in use", re.Message)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
}

func TestForbiddenWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := NewCollection[model.Category](c, ResourceCategory).List(context.Background(), Query{})
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Unauthorized", re.Message)
}

func TestSuccessStatusIgnoresBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	err := NewCollection[model.Item](c, ResourceItem).Remove(context.Background(), "1")
	assert.NoError(t, err)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url})
	_, err := NewCollection[model.Item](c, ResourceItem).List(context.Background(), Query{})
	require.Error(t, err)
	assert.True(t, IsKind(err, NetworkFailure))
	assert.False(t, IsKind(err, ServerRejection))
}

func TestInvalidEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err := NewCollection[model.Item](c, ResourceItem).List(context.Background(), Query{})
	assert.True(t, IsKind(err, InvalidResponse))
}

func TestCreateSingleCorrelatesByRef(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Dairy", body["name"])
		assert.Equal(t, "ref-1", body["ref"])
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":["C1"],"refs":{"ref-1":"C1"}}`))
	})
	ids, err := NewCollection[model.Category](c, ResourceCategory).Create(context.Background(), model.Category{Name: "Dairy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, ids)
}

func TestCreateBatchPrefersRefsOverPosition(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 2)
		// Server answers out of order; refs carry the real mapping.
		w.Write([]byte(`{"data":["id-b","id-a"],"refs":{"ref-1":"id-a","ref-2":"id-b"}}`))
	})
	ids, err := NewCollection[model.Category](c, ResourceCategory).Create(context.Background(),
		model.Category{Name: "A"}, model.Category{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-a", "id-b"}, ids)
}

func TestCreatePositionalFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"data":["x", 7]}`))
	})
	ids, err := NewCollection[model.Category](c, ResourceCategory).Create(context.Background(),
		model.Category{Name: "A"}, model.Category{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "7"}, ids)
}

func TestCreateCountMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":["x"]}`))
	})
	_, err := NewCollection[model.Category](c, ResourceCategory).Create(context.Background(),
		model.Category{Name: "A"}, model.Category{Name: "B"})
	assert.True(t, IsKind(err, InvalidResponse))
}

func TestGetAndPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/shoppingList/L1", r.URL.Path)
			w.Write([]byte(`{"data":[{"id":"L1","name":"Weekly","status":"active"}]}`))
		case http.MethodPatch:
			assert.Equal(t, "/api/shoppingListItem/line%201", r.URL.EscapedPath())
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, true, body["isPurchased"])
			w.WriteHeader(http.StatusOK)
		}
	})

	list, err := NewCollection[model.ShoppingList](c, ResourceShoppingList).Get(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, list.Status)

	err = NewCollection[model.ShoppingListItem](c, ResourceListItem).Patch(context.Background(), "line 1", map[string]any{"isPurchased": true})
	assert.NoError(t, err)
}

func TestGetEmptyEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})
	_, err := NewCollection[model.ShoppingList](c, ResourceShoppingList).Get(context.Background(), "nope")
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestErrorString(t *testing.T) {
	err := &Error{Resource: "item", Op: OpCreate, Kind: ServerRejection, Status: 400, Message: "name is required"}
	assert.Equal(t, "create item: server rejection: status 400: name is required", err.Error())
}
