package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_FilterByCategory(t *testing.T) {
	c := New()

	page := c.List(Query{Category: "embedding"})

	require.NotEmpty(t, page.Models)
	for _, m := range page.Models {
		assert.Equal(t, Embedding, m.Category)
	}
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, c.Len(), page.Meta.TotalModels)
	assert.Equal(t, 1, page.TotalPages)
}

func TestList_Defaults(t *testing.T) {
	page := New().List(Query{})

	assert.Equal(t, DefaultPage, page.Page)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Len(t, page.Models, DefaultLimit)
	assert.Equal(t, New().Len(), page.Total)
	assert.Contains(t, page.Meta.Categories, FineTune)
	assert.Contains(t, page.Meta.Providers, "Meta")
}

func TestList_ProviderIsCaseInsensitiveSubstring(t *testing.T) {
	page := New().List(Query{Provider: "mistral"})

	require.NotEmpty(t, page.Models)
	for _, m := range page.Models {
		assert.Equal(t, "Mistral AI", m.Provider)
	}
}

func TestList_MinContextDropsEntriesWithoutContext(t *testing.T) {
	page := New().List(Query{MinContext: 200000})

	ids := make([]string, 0, len(page.Models))
	for _, m := range page.Models {
		require.NotNil(t, m.ContextLength)
		assert.GreaterOrEqual(t, *m.ContextLength, 200000)
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"anthropic/Claude-3-Opus", "anthropic/Claude-3-Sonnet", "google/Gemini-Pro"}, ids)
}

func TestList_SearchMatchesCategory(t *testing.T) {
	page := New().List(Query{Search: "fine-tune"})
	assert.Equal(t, 4, page.Total)
}

func TestList_Paging(t *testing.T) {
	c := New()

	first := c.List(Query{Limit: 10, Page: 1})
	last := c.List(Query{Limit: 10, Page: first.TotalPages})
	beyond := c.List(Query{Limit: 10, Page: first.TotalPages + 1})

	assert.Len(t, first.Models, 10)
	assert.NotEmpty(t, last.Models)
	assert.Empty(t, beyond.Models)
	assert.Equal(t, first.Total, beyond.Total)
}

func TestList_HugePagingValues(t *testing.T) {
	c := New()

	for _, q := range []Query{
		{Page: 2, Limit: math.MaxInt},
		{Page: math.MaxInt, Limit: 100},
		{Page: math.MaxInt, Limit: math.MaxInt},
	} {
		var page Page
		require.NotPanics(t, func() { page = c.List(q) }, "page %d limit %d", q.Page, q.Limit)
		assert.Empty(t, page.Models)
		assert.Equal(t, c.Len(), page.Total)
	}

	all := c.List(Query{Page: 1, Limit: math.MaxInt})
	assert.Len(t, all.Models, c.Len())
	assert.Equal(t, 1, all.TotalPages)
}

func TestLookup(t *testing.T) {
	c := New()

	m, ok := c.Lookup("STABILITYAI/sdxl-turbo")
	require.True(t, ok)
	assert.Equal(t, ImageGen, m.Category)

	m, ok = c.Lookup("sdxl-turbo")
	require.True(t, ok)
	assert.Equal(t, "stabilityai/SDXL-Turbo", m.ID)

	price, ok := m.UnitPrice()
	assert.True(t, ok)
	assert.InDelta(t, 0.001, price, 1e-12)

	_, ok = c.Lookup("not-a-model")
	assert.False(t, ok)
}
