package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
)

func (s *Server) ListPages(c *gin.Context) {
	resp, err := s.pageSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePage(c *gin.Context) {
	var req pagedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pageSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetPage(c *gin.Context) {
	resp, err := s.pageSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdatePage(c *gin.Context) {
	var req pagedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.pageSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeletePage(c *gin.Context) {
	if err := s.pageSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "deleted"}})
}

func (s *Server) ReorderPages(c *gin.Context) {
	var req pagedomain.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pageSvc.Reorder(c.Request.Context(), req)
	s.metrics.ObserveReorder("pages", err == nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportResume(c *gin.Context) {
	doc, err := s.exportSvc.ExportResume(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.ObserveExport()
	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
