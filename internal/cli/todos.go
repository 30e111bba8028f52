package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoplist/internal/page"
)

func newTodosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todos",
		Aliases: []string{"todo"},
		Short:   "Todo commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewTodos(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			renderTodos(app.out, p.State().Todos.Items(), p.State().Remaining())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			_, err := page.NewTodos(app.deps).Add(ctx, page.TodoForm{Title: strings.Join(args, " ")})
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a todo done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewTodos(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			_, err := p.Toggle(ctx, args[0])
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Change the title of a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			p := page.NewTodos(app.deps)
			if err := p.Load(ctx); err != nil {
				return err
			}
			_, err := p.Update(ctx, args[0], page.TodoForm{Title: strings.Join(args[1:], " ")})
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()
			return page.NewTodos(app.deps).Delete(ctx, args[0])
		},
	})
	return cmd
}
