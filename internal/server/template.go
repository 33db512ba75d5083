package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	templatedomain "github.com/sparklinkhq/sparklink/internal/template/domain"
)

func (s *Server) ListTemplates(c *gin.Context) {
	resp, err := s.templateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTemplate(c *gin.Context) {
	resp, err := s.templateSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type ApplyTemplateRequest struct {
	ColorScheme string `json:"color_scheme,omitempty"`
}

func (s *Server) ApplyTemplate(c *gin.Context) {
	var req ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.templateSvc.Apply(c.Request.Context(), templatedomain.ApplyRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		ColorScheme: req.ColorScheme,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
