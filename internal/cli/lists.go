package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoplist/internal/aggregate"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/page"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Shopping list commands",
	}
	cmd.AddCommand(newListsListCmd(app))
	cmd.AddCommand(newListsCreateCmd(app))
	cmd.AddCommand(newListsEditCmd(app))
	cmd.AddCommand(newListsDeleteCmd(app))
	cmd.AddCommand(newListsShowCmd(app))
	cmd.AddCommand(newListsAddCmd(app))
	cmd.AddCommand(newListsToggleCmd(app))
	cmd.AddCommand(newListsQtyCmd(app))
	cmd.AddCommand(newListsRemoveCmd(app))
	return cmd
}

func newListsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shopping lists with their totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewLists(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			lists := p.State().Lists.Items()
			if len(lists) == 0 {
				fmt.Fprintln(app.out, styleMuted.Render("No shopping lists."))
			}
			for _, l := range lists {
				renderList(app.out, l, p.State().Summary(l.ID))
			}
			return nil
		},
	}
}

func newListsCreateCmd(app *App) *cobra.Command {
	var form page.ListForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new shopping list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			l, err := page.NewLists(app.deps).Create(ctx, form)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, l.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "list name")
	cmd.Flags().StringVar(&form.Comment, "comment", "", "comment")
	return cmd
}

func newListsEditCmd(app *App) *cobra.Command {
	var form page.ListForm
	cmd := &cobra.Command{
		Use:   "edit <list>",
		Short: "Rename a list, change its comment or mark it completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			d, err := app.loadDetail(ctx, args[0])
			if err != nil {
				return err
			}
			current := d.State().List
			if !cmd.Flags().Changed("name") {
				form.Name = current.Name
			}
			if !cmd.Flags().Changed("comment") {
				form.Comment = current.Comment
			}
			_, err = d.Save(ctx, form)
			return err
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "new name")
	cmd.Flags().StringVar(&form.Comment, "comment", "", "new comment")
	cmd.Flags().StringVar(&form.Status, "status", "", "active or completed")
	return cmd
}

func newListsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list>",
		Short: "Delete a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewLists(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			l, err := findList(p.State().Lists.Items(), args[0])
			if err != nil {
				return err
			}
			return p.Delete(ctx, l.ID)
		},
	}
}

func newListsShowCmd(app *App) *cobra.Command {
	var categories []string
	var available bool
	cmd := &cobra.Command{
		Use:   "show <list>",
		Short: "Show the lines of a list grouped by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			d, err := app.loadDetail(ctx, args[0])
			if err != nil {
				return err
			}
			var selected []model.Category
			for _, key := range categories {
				c, err := findCategory(d.State().Categories(), key)
				if err != nil {
					return err
				}
				selected = append(selected, c)
			}
			d.SetFilter(selected)

			s := d.State()
			renderList(app.out, s.List, s.Summary())
			fmt.Fprintln(app.out)
			renderRowGroups(app.out, s.Groups())
			fmt.Fprintln(app.out)
			renderSummary(app.out, s.Summary())
			if available {
				fmt.Fprintln(app.out)
				fmt.Fprintln(app.out, styleHeading.Render("Not on this list"))
				renderItemGroups(app.out, aggregate.GroupByCategory(s.Available(), nil))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "only show these categories (repeatable)")
	cmd.Flags().BoolVar(&available, "available", false, "also list catalogue items not on the list")
	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <list> <item>",
		Short: "Put an item on a list; unknown names are added to the catalogue",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			d, err := app.loadDetail(ctx, args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if it, err := findItem(d.State().Items.Items(), name); err == nil {
				_, err = d.AddItem(ctx, it.ID, qty)
				return err
			}
			_, err = d.AddNewItem(ctx, name, qty)
			return err
		},
	}
	cmd.Flags().IntVarP(&qty, "quantity", "q", 1, "quantity")
	return cmd
}

func newListsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <list> <line>",
		Short: "Tick or untick a line",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			d, row, err := app.loadLine(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return d.Toggle(ctx, row.ShoppingListItemID)
		},
	}
}

func newListsQtyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <list> <line> <quantity>",
		Short: "Change the quantity of a line; anything but a positive number means 1",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			last := len(args) - 1
			d, row, err := app.loadLine(ctx, args[0], strings.Join(args[1:last], " "))
			if err != nil {
				return err
			}
			_, err = d.SetQuantity(ctx, row.ShoppingListItemID, args[last])
			return err
		},
	}
}

func newListsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <list> <line>",
		Short: "Take a line off a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			d, row, err := app.loadLine(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return d.RemoveLine(ctx, row.ShoppingListItemID)
		},
	}
}

// loadDetail resolves key to a list by id or name and loads its page.
func (app *App) loadDetail(ctx context.Context, key string) (*page.Detail, error) {
	lists := page.NewLists(app.deps)
	if err := lists.Load(ctx); err != nil {
		return nil, err
	}
	l, err := findList(lists.State().Lists.Items(), key)
	if err != nil {
		return nil, err
	}
	d := page.NewDetail(app.deps, l.ID)
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (app *App) loadLine(ctx context.Context, listKey, lineKey string) (*page.Detail, model.ListRow, error) {
	d, err := app.loadDetail(ctx, listKey)
	if err != nil {
		return nil, model.ListRow{}, err
	}
	row, err := findRow(d.State().Rows.Items(), lineKey)
	if err != nil {
		return nil, model.ListRow{}, err
	}
	return d, row, nil
}

func findList(lists []model.ShoppingList, key string) (model.ShoppingList, error) {
	key = strings.TrimSpace(key)
	for _, l := range lists {
		if model.SameID(l.ID, key) {
			return l, nil
		}
	}
	for _, l := range lists {
		if strings.EqualFold(l.Name, key) {
			return l, nil
		}
	}
	return model.ShoppingList{}, fmt.Errorf("shopping list not found: %s", key)
}

// findRow matches a line id, an item name, or a 1-based position.
func findRow(rows []model.ListRow, key string) (model.ListRow, error) {
	key = strings.TrimSpace(key)
	for _, r := range rows {
		if model.SameID(r.ShoppingListItemID, key) {
			return r, nil
		}
	}
	for _, r := range rows {
		if strings.EqualFold(r.ItemName, key) {
			return r, nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(rows) {
		return rows[n-1], nil
	}
	return model.ListRow{}, fmt.Errorf("line not found: %s", key)
}
