package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukerupert/shoplist/internal/icon"
)

func newIconsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "icons [search]",
		Short: "List the icons a category can use",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderIcons(app.out, icon.Search(strings.Join(args, " ")))
			return nil
		},
	}
}
