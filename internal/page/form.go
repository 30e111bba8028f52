package page

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/shoplist/internal/model"
)

var validate = validator.New()

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fieldMessage(n, e.Fields[n])
	}
	return strings.Join(parts, " ")
}

func fieldMessage(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required."
	case "gte", "min":
		return field + " is too small."
	case "max":
		return field + " is too long."
	case "oneof":
		return field + " is not a valid choice."
	case "unique":
		return field + " is already on this list."
	default:
		return field + " is invalid."
	}
}

// check runs the struct tags of form and converts failures to a
// *ValidationError.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// ItemForm is the add/edit item dialog. Categories without an id are created
// before the item is saved.
type ItemForm struct {
	Name       string `validate:"required,max=200"`
	Comment    string `validate:"max=1000"`
	Price      string
	Categories []model.Category
}

func (f ItemForm) price() (*float64, error) {
	s := strings.TrimSpace(f.Price)
	if s == "" {
		return nil, nil
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 {
		return nil, &ValidationError{Fields: map[string]string{"Price": "gte"}}
	}
	return &p, nil
}

func (f ItemForm) item() (model.Item, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := check(f); err != nil {
		return model.Item{}, err
	}
	price, err := f.price()
	if err != nil {
		return model.Item{}, err
	}
	return model.Item{Name: f.Name, Comment: f.Comment, Price: price}, nil
}

type CategoryForm struct {
	Name string `validate:"required,max=100"`
	Icon string
}

func (f CategoryForm) category() (model.Category, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := check(f); err != nil {
		return model.Category{}, err
	}
	return model.Category{Name: f.Name, Icon: strings.TrimSpace(f.Icon)}, nil
}

type ListForm struct {
	Name    string `validate:"required,max=200"`
	Comment string `validate:"max=1000"`
	Status  string `validate:"omitempty,oneof=active completed"`
}

func (f ListForm) list() (model.ShoppingList, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := check(f); err != nil {
		return model.ShoppingList{}, err
	}
	status := model.ListStatus(f.Status)
	if status == "" {
		status = model.StatusActive
	}
	return model.ShoppingList{Name: f.Name, Comment: f.Comment, Status: status}, nil
}

type TodoForm struct {
	Title string `validate:"required,max=500"`
}
