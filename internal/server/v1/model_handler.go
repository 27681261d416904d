package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/pkg/api"
)

type ModelHandler struct {
	catalog *catalog.Catalog
}

func NewModelHandler(cat *catalog.Catalog) *ModelHandler {
	return &ModelHandler{catalog: cat}
}

// List filters and pages the model catalog.
//
// GET /models?category=&provider=&min_context=&search=&page=&limit=
func (h *ModelHandler) List(c *gin.Context) {
	q := catalog.Query{
		Category: c.Query("category"),
		Provider: c.Query("provider"),
		Search:   c.Query("search"),
	}
	if q.Search == "" {
		q.Search = c.Query("q")
	}

	var err error
	if q.MinContext, err = intQuery(c, "min_context", 0); err != nil {
		_ = c.Error(err)
		return
	}
	if q.Page, err = intQuery(c, "page", catalog.DefaultPage); err != nil {
		_ = c.Error(err)
		return
	}
	if q.Limit, err = intQuery(c, "limit", catalog.DefaultLimit); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, h.catalog.List(q))
}

// intQuery reads a non-negative integer query parameter.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, api.ValidationError("Invalid '"+name+"' parameter",
			map[string]string{name: "must be a non-negative integer"})
	}
	return v, nil
}
