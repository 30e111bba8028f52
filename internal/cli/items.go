package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/page"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Item catalogue commands",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsEditCmd(app))
	cmd.AddCommand(newItemsDeleteCmd(app))
	cmd.AddCommand(newItemsSuggestCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var categories []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewItems(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			var selected []model.Category
			for _, key := range categories {
				c, err := findCategory(p.State().Categories.Items(), key)
				if err != nil {
					return err
				}
				selected = append(selected, c)
			}
			p.SetFilter(selected)
			renderItemGroups(app.out, p.State().Groups())
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "only show these categories (name or id, repeatable)")
	return cmd
}

type itemFlags struct {
	form       page.ItemForm
	categories []string
	suggest    bool
}

func (f *itemFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.form.Name, "name", "", "item name")
	cmd.Flags().StringVar(&f.form.Price, "price", "", "unit price")
	cmd.Flags().StringVar(&f.form.Comment, "comment", "", "comment")
	cmd.Flags().StringSliceVarP(&f.categories, "category", "c", nil, "category name or id; new names are created (repeatable)")
}

func newItemsAddCmd(app *App) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewItems(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			f.form.Categories = resolveCategories(p.State().Categories.Items(), f.categories)
			if len(f.form.Categories) == 0 && f.suggest {
				if c, ok := p.SuggestCategory(f.form.Name); ok {
					fmt.Fprintln(app.errOut, styleMuted.Render("Filed under "+c.Name))
					f.form.Categories = []model.Category{c}
				}
			}
			it, err := p.Add(ctx, f.form)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, it.ID)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.suggest, "suggest", true, "file under a guessed category when none is given")
	return cmd
}

func newItemsEditCmd(app *App) *cobra.Command {
	var f itemFlags
	var clearCategories bool
	cmd := &cobra.Command{
		Use:   "edit <item>",
		Short: "Change an item; --category replaces its whole category set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewItems(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			current, err := findItem(p.State().Items.Items(), args[0])
			if err != nil {
				return err
			}

			form := page.ItemForm{
				Name:       current.Name,
				Comment:    current.Comment,
				Price:      strings.TrimPrefix(money(current.Price), "$"),
				Categories: current.Categories(),
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = f.form.Name
			}
			if flags.Changed("price") {
				form.Price = f.form.Price
			}
			if flags.Changed("comment") {
				form.Comment = f.form.Comment
			}
			if flags.Changed("category") {
				form.Categories = resolveCategories(p.State().Categories.Items(), f.categories)
			}
			if clearCategories {
				form.Categories = nil
			}
			_, err = p.Update(ctx, current.ID, form)
			return err
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&clearCategories, "no-category", false, "remove every category from the item")
	return cmd
}

func newItemsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewItems(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			it, err := findItem(p.State().Items.Items(), args[0])
			if err != nil {
				return err
			}
			return p.Delete(ctx, it.ID)
		},
	}
}

func newItemsSuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <name>",
		Short: "Guess which existing category a new item belongs to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewItems(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			c, ok := p.SuggestCategory(strings.Join(args, " "))
			if !ok {
				fmt.Fprintln(app.out, styleMuted.Render("No matching category."))
				return nil
			}
			renderCategories(app.out, []model.Category{c})
			return nil
		},
	}
}

// findItem matches key against ids first, then names, ignoring case.
func findItem(items []model.Item, key string) (model.Item, error) {
	key = strings.TrimSpace(key)
	for _, it := range items {
		if model.SameID(it.ID, key) {
			return it, nil
		}
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, key) {
			return it, nil
		}
	}
	return model.Item{}, fmt.Errorf("item not found: %s", key)
}
