package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/internal/gateway"
	"github.com/nulzo/inference-gateway/pkg/api"
)

type SpeechHandler struct {
	service gateway.Service
}

func NewSpeechHandler(service gateway.Service) *SpeechHandler {
	return &SpeechHandler{service: service}
}

// Create synthesizes speech and streams back the raw audio.
//
// POST /audio/speech
func (h *SpeechHandler) Create(c *gin.Context) {
	var req api.SpeechRequest
	if !bindBody(c, &req, gateway.SpeechExample) {
		return
	}

	result, err := h.service.Speech(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("X-Model", result.Model)
	c.Data(http.StatusOK, result.ContentType, result.Audio)
}
