// Package handler serves the shopping list REST resources. Every successful
// read answers with a {"data": [...]} envelope and every failure with
// {"error": "..."}.
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/shoplist/internal/filter"
	"github.com/dukerupert/shoplist/internal/store"
)

// MaxPageSize caps the pageSize query parameter.
const MaxPageSize = 1000

const maxBody = 1 << 20

var validate = validator.New()

func init() {
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON names in validation errors.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type dataEnvelope[T any] struct {
	Data []T `json:"data"`
}

func writeData[T any](w http.ResponseWriter, data []T) {
	if data == nil {
		data = []T{}
	}
	writeJSON(w, http.StatusOK, dataEnvelope[T]{Data: data})
}

// writeOne answers a single-record read with a one-element envelope.
func writeOne[T any](w http.ResponseWriter, v T) {
	writeJSON(w, http.StatusOK, dataEnvelope[T]{Data: []T{v}})
}

type createdEnvelope struct {
	Data []string          `json:"data"`
	Refs map[string]string `json:"refs,omitempty"`
}

// writeCreated answers a create with the assigned ids in request order and,
// for records that carried a ref, the ref to id mapping.
func writeCreated[R refd](w http.ResponseWriter, reqs []R, ids []string) {
	refs := map[string]string{}
	for i, r := range reqs {
		if ref := r.refKey(); ref != "" {
			refs[ref] = ids[i]
		}
	}
	if len(refs) == 0 {
		refs = nil
	}
	writeJSON(w, http.StatusCreated, createdEnvelope{Data: ids, Refs: refs})
}

type refd interface {
	refKey() string
}

// reqRef is embedded in create requests to carry the client correlation key.
type reqRef struct {
	Ref string `json:"ref,omitempty"`
}

func (r reqRef) refKey() string { return r.Ref }

var errEmptyBatch = errors.New("request body holds no records")

// decodeBatch reads either one JSON object or an array of them.
func decodeBatch[R any](r *http.Request) ([]R, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmptyBatch
	}
	if raw[0] == '[' {
		var reqs []R
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, err
		}
		if len(reqs) == 0 {
			return nil, errEmptyBatch
		}
		return reqs, nil
	}
	var req R
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	return []R{req}, nil
}

func decodeOne(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
}

// validationMessage turns validator failures into one readable sentence.
func validationMessage(err error) (string, map[string]string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error(), nil
	}
	fields := make(map[string]string, len(verrs))
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		parts = append(parts, fieldProblem(fe))
	}
	return strings.Join(parts, "; "), fields
}

func fieldProblem(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "uuid":
		return fe.Field() + " must be a UUID"
	default:
		return fe.Field() + " is invalid"
	}
}

// validateAll checks every request of a batch. It writes the response and
// returns false on the first invalid one.
func validateAll[R any](w http.ResponseWriter, reqs []R) bool {
	for i, req := range reqs {
		if err := validate.Struct(req); err != nil {
			msg, fields := validationMessage(err)
			if len(reqs) > 1 {
				msg = fmt.Sprintf("record %d: %s", i, msg)
			}
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": msg, "fields": fields})
			return false
		}
	}
	return true
}

// listParams are the query options common to list endpoints.
type listParams struct {
	Limit   int
	Include map[string]bool
	Filter  filter.Expr
}

func parseListParams(r *http.Request) (listParams, error) {
	q := r.URL.Query()
	p := listParams{Limit: MaxPageSize, Include: map[string]bool{}}

	if s := q.Get("pageSize"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return p, fmt.Errorf("invalid pageSize %q", s)
		}
		p.Limit = min(n, MaxPageSize)
	}
	for _, inc := range strings.Split(q.Get("include"), ",") {
		if inc = strings.TrimSpace(inc); inc != "" {
			p.Include[inc] = true
		}
	}
	expr, err := filter.Parse(q.Get("filter"))
	if err != nil {
		return p, fmt.Errorf("invalid filter: %w", err)
	}
	p.Filter = expr
	return p, nil
}

// storeError maps store failures to a status code. Unknown errors are logged
// and hidden behind a generic message.
func storeError(w http.ResponseWriter, logger *slog.Logger, err error, action, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "conflicting "+what)
	default:
		logger.Error("store failure", "action", action, "resource", what, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+action+" "+what)
	}
}

func invalidJSON(w http.ResponseWriter, err error) {
	if errors.Is(err, errEmptyBatch) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, "invalid JSON")
}
