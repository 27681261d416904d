package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nulzo/inference-gateway/internal/gateway"
	"github.com/nulzo/inference-gateway/internal/server/validator"
	"github.com/nulzo/inference-gateway/pkg/api"
)

// DefaultModel is used by /inference when the body names no model.
const DefaultModel = "llama-3.1-70b"

type InferenceHandler struct {
	service gateway.Service
	newID   func() string
	now     func() time.Time
}

func NewInferenceHandler(service gateway.Service) *InferenceHandler {
	return &InferenceHandler{
		service: service,
		newID:   func() string { return "inf_" + uuid.NewString()[:8] },
		now:     time.Now,
	}
}

// Infer serves /inference and its /chat/completions and /completions aliases.
//
// POST /inference
func (h *InferenceHandler) Infer(c *gin.Context) {
	var req api.InferenceRequest
	if !bindBody(c, &req, gateway.InferenceExample) {
		return
	}
	if req.Model == "" {
		req.Model = DefaultModel
	}

	result, err := h.service.Infer(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gateway.ToInference(result, h.newID(), h.now()))
}

// ModelInference is the category-aware variant. The model is mandatory and
// maxTokens is accepted as a spelling of max_tokens.
//
// POST /model-inference
func (h *InferenceHandler) ModelInference(c *gin.Context) {
	var req api.ModelInferenceRequest
	if !bindBody(c, &req, gateway.InferenceExample) {
		return
	}
	if req.MaxTokens == nil {
		req.MaxTokens = req.MaxTokensCamel
	}

	result, err := h.service.Infer(c.Request.Context(), &req.InferenceRequest)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gateway.ToModelInference(result))
}

// bindBody decodes the request body into obj. On failure the problem is
// pushed to the context and false is returned.
func bindBody(c *gin.Context, obj interface{}, example interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		_ = c.Error(api.BadRequest("Failed to read request body", api.WithLog(err)))
		return false
	}
	if err := validator.DecodeJSON(body, obj, example); err != nil {
		_ = c.Error(err)
		return false
	}
	return true
}
