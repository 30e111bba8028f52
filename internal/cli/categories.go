package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoplist/internal/icon"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/page"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Category commands",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesAddCmd(app))
	cmd.AddCommand(newCategoriesEditCmd(app))
	cmd.AddCommand(newCategoriesDeleteCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewCategories(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			renderCategories(app.out, p.State().Categories.Items())
			return nil
		},
	}
}

func newCategoriesAddCmd(app *App) *cobra.Command {
	var form page.CategoryForm
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := iconCode(form.Icon)
			if err != nil {
				return err
			}
			form.Icon = code
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			cat, err := page.NewCategories(app.deps).Add(ctx, form)
			if err != nil {
				return err
			}
			renderCategories(app.out, []model.Category{cat})
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "category name")
	cmd.Flags().StringVar(&form.Icon, "icon", "", "icon name or code (see: shoplist icons)")
	return cmd
}

func newCategoriesEditCmd(app *App) *cobra.Command {
	var form page.CategoryForm
	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Rename a category or change its icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewCategories(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			current, err := findCategory(p.State().Categories.Items(), args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				form.Name = current.Name
			}
			if cmd.Flags().Changed("icon") {
				if form.Icon, err = iconCode(form.Icon); err != nil {
					return err
				}
			} else {
				form.Icon = current.Icon
			}
			cat, err := p.Update(ctx, current.ID, form)
			if err != nil {
				return err
			}
			renderCategories(app.out, []model.Category{cat})
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "new name")
	cmd.Flags().StringVar(&form.Icon, "icon", "", "new icon name or code")
	return cmd
}

func newCategoriesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category no item uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewCategories(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			cat, err := findCategory(p.State().Categories.Items(), args[0])
			if err != nil {
				return err
			}
			return p.Delete(ctx, cat.ID)
		},
	}
}

// findCategory matches key against ids first, then names, ignoring case.
func findCategory(cats []model.Category, key string) (model.Category, error) {
	key = strings.TrimSpace(key)
	for _, c := range cats {
		if model.SameID(c.ID, key) {
			return c, nil
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, key) {
			return c, nil
		}
	}
	return model.Category{}, fmt.Errorf("category not found: %s", key)
}

// resolveCategories turns names or ids into categories. Unknown names become
// new categories, created when the item is saved.
func resolveCategories(cats []model.Category, keys []string) []model.Category {
	var out []model.Category
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if c, err := findCategory(cats, k); err == nil {
			out = append(out, c)
			continue
		}
		out = append(out, model.Category{Name: k})
	}
	return out
}

func iconCode(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	o, ok := icon.Lookup(s)
	if !ok {
		return "", fmt.Errorf("unknown icon %q (see: shoplist icons)", s)
	}
	return o.Code, nil
}
