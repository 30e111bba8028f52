package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/handler"
)

func setupServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := New(db, opts, slog.New(slog.DiscardHandler))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

type created struct {
	Data []string          `json:"data"`
	Refs map[string]string `json:"refs"`
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := setupServer(t, Options{})
	resp, body := do(t, ts, "GET", "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	ts := setupServer(t, Options{})

	resp, body := do(t, ts, "POST", "/api/category", `[{"name":"Dairy","ref":"a"},{"name":"Bakery","ref":"b"}]`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	c := decode[created](t, body)
	if len(c.Data) != 2 || c.Refs["a"] != c.Data[0] || c.Refs["b"] != c.Data[1] {
		t.Fatalf("created = %+v", c)
	}

	resp, body = do(t, ts, "GET", "/api/category?pageSize=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	list := decode[struct {
		Data []map[string]any `json:"data"`
	}](t, body)
	if len(list.Data) != 1 || list.Data[0]["name"] != "Dairy" {
		t.Errorf("list = %s", body)
	}

	resp, _ = do(t, ts, "PUT", "/api/category/"+c.Data[1], `{"name":"Bread","icon":"bakery e001"}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("update status = %d", resp.StatusCode)
	}
	resp, body = do(t, ts, "GET", "/api/category/"+c.Data[1], "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Bread") {
		t.Errorf("get = %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, ts, "DELETE", "/api/category/"+c.Data[1], "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, "DELETE", "/api/category/"+c.Data[1], "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCategoryValidation(t *testing.T) {
	ts := setupServer(t, Options{})

	resp, body := do(t, ts, "POST", "/api/category", `{"name":""}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if !strings.Contains(string(body), "name is required") {
		t.Errorf("body = %s", body)
	}

	resp, _ = do(t, ts, "POST", "/api/category", `{"name":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d, want 400", resp.StatusCode)
	}
	resp, _ = do(t, ts, "POST", "/api/category", `[]`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty batch status = %d, want 400", resp.StatusCode)
	}
}

func TestCategoryDeleteInUse(t *testing.T) {
	ts := setupServer(t, Options{})

	_, body := do(t, ts, "POST", "/api/category", `{"name":"Dairy"}`)
	catID := decode[created](t, body).Data[0]
	resp, body := do(t, ts, "POST", "/api/item", `{"name":"Milk","itemCategory":[{"category":{"id":"`+catID+`"}}]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item = %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, ts, "DELETE", "/api/category/"+catID, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
	msg := decode[map[string]string](t, body)["error"]
	if msg != handler.CategoryInUseMessage {
		t.Errorf("error = %q", msg)
	}
}

func TestItemPriceValidation(t *testing.T) {
	ts := setupServer(t, Options{})

	resp, body := do(t, ts, "POST", "/api/item", `{"name":"Milk","price":-1}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", resp.StatusCode, body)
	}

	resp, body = do(t, ts, "POST", "/api/item", `{"name":"Milk","price":"1.239"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("string price status = %d: %s", resp.StatusCode, body)
	}
	id := decode[created](t, body).Data[0]
	_, body = do(t, ts, "GET", "/api/item/"+id, "")
	if !strings.Contains(string(body), `"price":1.24`) {
		t.Errorf("price not rounded to cents: %s", body)
	}
}

func TestListLineEndpoints(t *testing.T) {
	ts := setupServer(t, Options{})

	_, body := do(t, ts, "POST", "/api/shoppingList", `{"name":"Weekly"}`)
	listID := decode[created](t, body).Data[0]
	_, body = do(t, ts, "POST", "/api/item", `{"name":"Milk","price":2}`)
	itemID := decode[created](t, body).Data[0]

	resp, body := do(t, ts, "POST", "/api/shoppingListItem",
		`{"item":{"id":"`+itemID+`"},"shoppingList":{"id":"`+listID+`"},"quantity":2}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create line = %d %s", resp.StatusCode, body)
	}
	lineID := decode[created](t, body).Data[0]

	resp, _ = do(t, ts, "PATCH", "/api/shoppingListItem/"+lineID, `{"isPurchased":true}`)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("patch status = %d", resp.StatusCode)
	}
	resp, _ = do(t, ts, "PATCH", "/api/shoppingListItem/"+lineID, `{"quantity":0}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("patch quantity 0 status = %d, want 422", resp.StatusCode)
	}
	resp, _ = do(t, ts, "PATCH", "/api/shoppingListItem/"+lineID, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty patch status = %d, want 400", resp.StatusCode)
	}

	resp, body = do(t, ts, "GET", `/api/shoppingListItemsWithCategory?filter=listId+eq+%22`+listID+`%22`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rows status = %d %s", resp.StatusCode, body)
	}
	rows := decode[struct {
		Data []map[string]any `json:"data"`
	}](t, body)
	if len(rows.Data) != 1 {
		t.Fatalf("rows = %s", body)
	}
	row := rows.Data[0]
	if row["isPurchased"] != true || row["quantity"] != float64(2) || row["categoryId"] != "-1" {
		t.Errorf("row = %v", row)
	}

	resp, _ = do(t, ts, "GET", `/api/shoppingListItemsWithCategory?filter=itemId+eq+%22x%22`, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unsupported filter status = %d, want 400", resp.StatusCode)
	}

	resp, _ = do(t, ts, "PUT", "/api/shoppingList/"+listID, `{"name":"Weekly","status":"archived"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("bad status = %d, want 422", resp.StatusCode)
	}
}

func TestTokenRequired(t *testing.T) {
	hash, err := auth.HashToken("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ts := setupServer(t, Options{TokenHash: hash})

	resp, body := do(t, ts, "GET", "/api/todo", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if decode[map[string]string](t, body)["error"] != "Unauthorized" {
		t.Errorf("body = %s", body)
	}

	// Health stays public.
	resp, _ = do(t, ts, "GET", "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", ts.URL+"/api/todo", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	authed, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("authed request: %v", err)
	}
	authed.Body.Close()
	if authed.StatusCode != http.StatusOK {
		t.Errorf("authed status = %d, want 200", authed.StatusCode)
	}
}

func TestRateLimit(t *testing.T) {
	ts := setupServer(t, Options{RateLimit: 2})

	for i := 0; i < 2; i++ {
		if resp, _ := do(t, ts, "GET", "/api/todo", ""); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, resp.StatusCode)
		}
	}
	resp, _ := do(t, ts, "GET", "/api/todo", "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
}

func TestListRowsEmptyListID(t *testing.T) {
	ts := setupServer(t, Options{})

	_, body := do(t, ts, "POST", "/api/shoppingList", `{"name":"Weekly"}`)
	listID := decode[created](t, body).Data[0]
	_, body = do(t, ts, "POST", "/api/item", `{"name":"Milk"}`)
	itemID := decode[created](t, body).Data[0]
	do(t, ts, "POST", "/api/shoppingListItem", `{"item":{"id":"`+itemID+`"},"shoppingList":{"id":"`+listID+`"}}`)

	resp, body := do(t, ts, "GET", `/api/shoppingListItemsWithCategory?filter=listId+eq+%22%22`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d %s", resp.StatusCode, body)
	}
	rows := decode[struct {
		Data []map[string]any `json:"data"`
	}](t, body)
	if len(rows.Data) != 0 {
		t.Errorf("empty listId matched %d rows, want 0", len(rows.Data))
	}
}
