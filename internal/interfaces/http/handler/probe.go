package handler

import (
	integrationapp "github.com/agendify/backend/internal/application/integration"
	"github.com/gin-gonic/gin"
)

// ProbeHandler handles provider connectivity test endpoints
type ProbeHandler struct {
	BaseHandler
	service *integrationapp.ProbeService
}

// NewProbeHandler creates a new ProbeHandler
func NewProbeHandler(service *integrationapp.ProbeService) *ProbeHandler {
	return &ProbeHandler{service: service}
}

// TestGemini checks connectivity to the AI provider. The result carries its
// own status: 400 for missing credentials, 502 when the provider rejects.
func (h *ProbeHandler) TestGemini(c *gin.Context) {
	result := h.service.TestGemini(c.Request.Context())
	c.JSON(result.StatusCode, result)
}

// TestWhatsApp checks connectivity to the WhatsApp Cloud API
func (h *ProbeHandler) TestWhatsApp(c *gin.Context) {
	result := h.service.TestWhatsApp(c.Request.Context())
	c.JSON(result.StatusCode, result)
}
