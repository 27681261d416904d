package catalog

import (
	"sort"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Catalog is the read-only model registry. It is safe for concurrent use.
type Catalog struct {
	models     []ModelDescriptor
	byID       map[string]int
	categories []Category
	providers  []string
}

// New builds the catalog from the built-in table.
func New() *Catalog {
	return FromDescriptors(builtin)
}

// FromDescriptors builds a catalog over a copy of models.
func FromDescriptors(models []ModelDescriptor) *Catalog {
	c := &Catalog{
		models: append([]ModelDescriptor(nil), models...),
		byID:   make(map[string]int, len(models)),
	}

	seenCat := make(map[Category]bool)
	seenProv := make(map[string]bool)
	for i, m := range c.models {
		c.byID[strings.ToLower(m.ID)] = i
		if !seenCat[m.Category] {
			seenCat[m.Category] = true
			c.categories = append(c.categories, m.Category)
		}
		if !seenProv[m.Provider] {
			seenProv[m.Provider] = true
			c.providers = append(c.providers, m.Provider)
		}
	}
	return c
}

// Len is the size of the whole catalog.
func (c *Catalog) Len() int { return len(c.models) }

// All returns a copy of every descriptor in table order.
func (c *Catalog) All() []ModelDescriptor {
	return append([]ModelDescriptor(nil), c.models...)
}

// Lookup finds a descriptor by its full id, or by the part after the last slash
// when id is a short client-facing name. Matching is case-insensitive.
func (c *Catalog) Lookup(id string) (ModelDescriptor, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	if i, ok := c.byID[key]; ok {
		return c.models[i], true
	}

	var matches []int
	for full, i := range c.byID {
		if j := strings.LastIndex(full, "/"); j >= 0 && full[j+1:] == key {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return ModelDescriptor{}, false
	}
	sort.Ints(matches)
	return c.models[matches[0]], true
}

// Query filters a catalog listing. Zero values disable a filter.
type Query struct {
	Category   string
	Provider   string
	MinContext int
	Search     string
	Page       int
	Limit      int
}

type Meta struct {
	Categories  []Category `json:"categories"`
	Providers   []string   `json:"providers"`
	TotalModels int        `json:"total_models"`
}

// Page is one page of a filtered listing. Meta always describes the whole catalog.
type Page struct {
	Models     []ModelDescriptor `json:"models"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Meta       Meta              `json:"meta"`
}

// List applies q in order: category, provider, min context, search, then paging.
func (c *Catalog) List(q Query) Page {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	provider := strings.ToLower(q.Provider)
	search := strings.ToLower(q.Search)

	filtered := make([]ModelDescriptor, 0, len(c.models))
	for _, m := range c.models {
		if q.Category != "" && string(m.Category) != q.Category {
			continue
		}
		if provider != "" && !strings.Contains(strings.ToLower(m.Provider), provider) {
			continue
		}
		if q.MinContext > 0 && (m.ContextLength == nil || *m.ContextLength < q.MinContext) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.ID), search) &&
			!strings.Contains(strings.ToLower(m.Provider), search) &&
			!strings.Contains(string(m.Category), search) {
			continue
		}
		filtered = append(filtered, m)
	}

	total := len(filtered)
	start, end := total, total
	if q.Page-1 <= total/q.Limit {
		start = min((q.Page-1)*q.Limit, total)
	}
	if q.Limit < total-start {
		end = start + q.Limit
	}

	return Page{
		Models:     filtered[start:end],
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages(total, q.Limit),
		Meta: Meta{
			Categories:  append([]Category(nil), c.categories...),
			Providers:   append([]string(nil), c.providers...),
			TotalModels: len(c.models),
		},
	}
}

func totalPages(total, limit int) int {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
