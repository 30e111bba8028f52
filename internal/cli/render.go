package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/shoplist/internal/aggregate"
	"github.com/dukerupert/shoplist/internal/icon"
	"github.com/dukerupert/shoplist/internal/model"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted   = ac("240", "243")
	colorAccent  = ac("25", "75")
	colorSuccess = ac("28", "78")
	colorError   = ac("160", "203")

	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleDone    = lipgloss.NewStyle().Foreground(colorMuted).Strikethrough(true)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleID      = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	styleSummary = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

func money(p *float64) string {
	if p == nil {
		return ""
	}
	return "$" + strconv.FormatFloat(*p, 'f', 2, 64)
}

func heading(c model.Category) string {
	name := c.Name
	if ic := icon.Name(c.DisplayIcon()); ic != "" {
		name = fmt.Sprintf("%s  %s", name, styleMuted.Render("("+strings.ReplaceAll(ic, "_", " ")+")"))
	}
	return styleHeading.Render(name)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func renderItemGroups(w io.Writer, groups []aggregate.Group[model.Item]) {
	if len(groups) == 0 {
		fmt.Fprintln(w, styleMuted.Render("No items."))
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, heading(g.Category))
		for _, it := range g.Items {
			line := "  " + it.Name
			if p := money(it.Price); p != "" {
				line += "  " + styleMuted.Render(p)
			}
			if it.Comment != "" {
				line += "  " + styleMuted.Render(it.Comment)
			}
			fmt.Fprintln(w, line+"  "+styleID.Render(it.ID))
		}
	}
}

func renderRowGroups(w io.Writer, groups []aggregate.Group[model.ListRow]) {
	if len(groups) == 0 {
		fmt.Fprintln(w, styleMuted.Render("This list is empty."))
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, heading(g.Category))
		for _, r := range g.Items {
			text := fmt.Sprintf("%s %dx %s", checkbox(r.IsPurchased), r.Quantity, r.ItemName)
			if r.IsPurchased {
				text = styleDone.Render(text)
			}
			line := "  " + text
			if p := money(r.ItemPrice); p != "" {
				line += "  " + styleMuted.Render(p)
			}
			fmt.Fprintln(w, line+"  "+styleID.Render(r.ShoppingListItemID))
		}
	}
}

func renderSummary(w io.Writer, s aggregate.Summary) {
	text := fmt.Sprintf("%d items  %d remaining  total $%s", s.Total, s.Remaining, s.Cost.StringFixed(2))
	fmt.Fprintln(w, styleSummary.Render(text))
}

func renderList(w io.Writer, l model.ShoppingList, s aggregate.Summary) {
	status := string(l.Status)
	if l.Status == model.StatusCompleted {
		status = styleDone.Render(status)
	}
	line := fmt.Sprintf("%s  %s  %d/%d left  $%s  %s",
		styleHeading.Render(l.Name), status, s.Remaining, s.Total, s.Cost.StringFixed(2), styleID.Render(l.ID))
	if l.Comment != "" {
		line += "\n  " + styleMuted.Render(l.Comment)
	}
	fmt.Fprintln(w, line)
}

func renderCategories(w io.Writer, cats []model.Category) {
	if len(cats) == 0 {
		fmt.Fprintln(w, styleMuted.Render("No categories."))
		return
	}
	for _, c := range cats {
		fmt.Fprintln(w, heading(c)+"  "+styleID.Render(c.ID))
	}
}

func renderTodos(w io.Writer, todos []model.TodoItem, remaining int) {
	for _, t := range todos {
		text := checkbox(t.IsComplete) + " " + t.Title
		if t.IsComplete {
			text = styleDone.Render(text)
		}
		fmt.Fprintln(w, text+"  "+styleID.Render(t.EntityID()))
	}
	fmt.Fprintln(w, styleMuted.Render(fmt.Sprintf("%d of %d left", remaining, len(todos))))
}

func renderIcons(w io.Writer, opts []icon.Option) {
	if len(opts) == 0 {
		fmt.Fprintln(w, styleMuted.Render("No icons match."))
		return
	}
	for _, o := range opts {
		fmt.Fprintf(w, "%-24s %s\n", o.Label, styleMuted.Render(o.Code))
	}
}
