// Package icon holds the catalog of icons a category can carry. Each catalog
// line is "name codepoint"; the whole trimmed line is what categories store.
package icon

import (
	"bufio"
	_ "embed"
	"sort"
	"strings"
)

//go:embed catalog.txt
var catalogText string

type Option struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// ParseCatalog turns catalog text into options. The label is the first word
// of the line with underscores shown as spaces. Blank lines are skipped.
func ParseCatalog(text string) []Option {
	var opts []Option
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		code := strings.TrimSpace(sc.Text())
		if code == "" {
			continue
		}
		name, _, _ := strings.Cut(code, " ")
		opts = append(opts, Option{
			Label: strings.ReplaceAll(name, "_", " "),
			Code:  code,
		})
	}
	return opts
}

var catalog = ParseCatalog(catalogText)

// All returns the embedded catalog sorted by label.
func All() []Option {
	out := make([]Option, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Lookup finds the option stored under code, also accepting a bare icon name
// or label.
func Lookup(code string) (Option, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Option{}, false
	}
	for _, o := range catalog {
		if o.Code == code {
			return o, true
		}
	}
	want := strings.ReplaceAll(strings.ToLower(code), "_", " ")
	for _, o := range catalog {
		if o.Label == want {
			return o, true
		}
	}
	return Option{}, false
}

// Search returns options whose label contains query, case-insensitively.
// An empty query matches everything.
func Search(query string) []Option {
	q := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), "_", " ")
	var out []Option
	for _, o := range All() {
		if strings.Contains(o.Label, q) {
			out = append(out, o)
		}
	}
	return out
}

// Name is the icon name without its codepoint, or "" for an empty code.
func Name(code string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(code), " ")
	return name
}
