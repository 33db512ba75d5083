package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ResolveSite(c *gin.Context) {
	resp, err := s.publicSiteSvc.Resolve(c.Request.Context(), strings.TrimSpace(c.Param("username")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type UnlockPageRequest struct {
	Password string `json:"password"`
}

func (s *Server) UnlockPage(c *gin.Context) {
	var req UnlockPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.publicSiteSvc.UnlockPage(
		c.Request.Context(),
		strings.TrimSpace(c.Param("username")),
		strings.TrimSpace(c.Param("slug")),
		req.Password,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
