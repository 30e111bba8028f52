package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/shoplist/internal/handler"
	"github.com/dukerupert/shoplist/internal/middleware"
	"github.com/dukerupert/shoplist/internal/store"
)

// Options tune the API surface.
type Options struct {
	// TokenHash is the bcrypt hash of the API token. Empty disables auth.
	TokenHash string
	// RateLimit is the number of API requests a client may make per minute.
	// Zero disables rate limiting.
	RateLimit int
}

type Server struct {
	db            *sql.DB
	categoryH     *handler.CategoryHandler
	itemH         *handler.ItemHandler
	itemCategoryH *handler.ItemCategoryHandler
	listH         *handler.ShoppingListHandler
	todoH         *handler.TodoHandler
	tokenChecker  *middleware.TokenChecker
	rateLimiter   *middleware.RateLimiter
	rateLimit     int
	logger        *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	categoryStore := store.NewCategoryStore(db)
	itemStore := store.NewItemStore(db)
	itemCategoryStore := store.NewItemCategoryStore(db)
	listStore := store.NewShoppingListStore(db)
	lineStore := store.NewShoppingListItemStore(db)
	rowStore := store.NewListRowStore(db)
	todoStore := store.NewTodoStore(db)

	return &Server{
		db:            db,
		categoryH:     handler.NewCategoryHandler(categoryStore, logger.With("component", "category")),
		itemH:         handler.NewItemHandler(itemStore, logger.With("component", "item")),
		itemCategoryH: handler.NewItemCategoryHandler(itemCategoryStore, logger.With("component", "item_category")),
		listH:         handler.NewShoppingListHandler(listStore, lineStore, rowStore, logger.With("component", "shopping_list")),
		todoH:         handler.NewTodoHandler(todoStore, logger.With("component", "todo")),
		tokenChecker:  middleware.NewTokenChecker(opts.TokenHash),
		rateLimiter:   middleware.NewRateLimiter(),
		rateLimit:     opts.RateLimit,
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// RunCleanup drops expired rate limit windows every interval until ctx ends.
func (s *Server) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.rateLimiter.Cleanup()
		}
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()
	outerMux.HandleFunc("GET /health", s.healthHandler)

	apiMux := http.NewServeMux()
	s.registerAPIRoutes(apiMux)

	var api http.Handler = apiMux
	if s.rateLimit > 0 {
		api = middleware.RateLimit(s.rateLimiter, middleware.ClientKey, s.rateLimit, time.Minute)(api)
	}
	api = middleware.RequireToken(s.tokenChecker)(api)
	outerMux.Handle("/api/", http.StripPrefix("/api", api))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /category", s.categoryH.List)
	mux.HandleFunc("POST /category", s.categoryH.Create)
	mux.HandleFunc("GET /category/{id}", s.categoryH.Get)
	mux.HandleFunc("PUT /category/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /category/{id}", s.categoryH.Delete)

	mux.HandleFunc("GET /item", s.itemH.List)
	mux.HandleFunc("POST /item", s.itemH.Create)
	mux.HandleFunc("GET /item/{id}", s.itemH.Get)
	mux.HandleFunc("PUT /item/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /item/{id}", s.itemH.Delete)

	mux.HandleFunc("POST /itemCategory", s.itemCategoryH.Create)
	mux.HandleFunc("DELETE /itemCategory/{id}", s.itemCategoryH.Delete)

	mux.HandleFunc("GET /shoppingList", s.listH.List)
	mux.HandleFunc("POST /shoppingList", s.listH.Create)
	mux.HandleFunc("GET /shoppingList/{id}", s.listH.Get)
	mux.HandleFunc("PUT /shoppingList/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /shoppingList/{id}", s.listH.Delete)

	mux.HandleFunc("POST /shoppingListItem", s.listH.CreateLine)
	mux.HandleFunc("GET /shoppingListItem/{id}", s.listH.GetLine)
	mux.HandleFunc("PATCH /shoppingListItem/{id}", s.listH.PatchLine)
	mux.HandleFunc("DELETE /shoppingListItem/{id}", s.listH.DeleteLine)

	mux.HandleFunc("GET /shoppingListItemsWithCategory", s.listH.ListRows)

	mux.HandleFunc("GET /todo", s.todoH.List)
	mux.HandleFunc("POST /todo", s.todoH.Create)
	mux.HandleFunc("GET /todo/{id}", s.todoH.Get)
	mux.HandleFunc("PUT /todo/{id}", s.todoH.Update)
	mux.HandleFunc("DELETE /todo/{id}", s.todoH.Delete)
}
