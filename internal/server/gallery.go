package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gallerydomain "github.com/sparklinkhq/sparklink/internal/gallery/domain"
	"github.com/sparklinkhq/sparklink/internal/storage"
)

func (s *Server) ListGalleryItems(c *gin.Context) {
	var req gallerydomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.gallerySvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateGalleryItem(c *gin.Context) {
	var req gallerydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.gallerySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// UploadGalleryImage accepts a multipart image plus metadata fields and
// creates the item with the stored object's URL.
func (s *Server) UploadGalleryImage(c *gin.Context) {
	if !s.storage.Enabled() {
		AbortWithError(c, storage.ErrStorageDisabled)
		return
	}
	if limit := s.storage.MaxUploadSize(); limit > 0 {
		// Cap the body before multipart parsing; the form fields ride
		// along, so leave some headroom over the image cap.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64<<10)
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer file.Close()

	key, url, err := s.storage.Upload(
		c.Request.Context(),
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	req := gallerydomain.CreateRequest{
		Title:     title,
		ImageURL:  url,
		ObjectKey: &key,
	}
	if desc := strings.TrimSpace(c.PostForm("description")); desc != "" {
		req.Description = &desc
	}
	if category := strings.TrimSpace(c.PostForm("category")); category != "" {
		req.Category = &category
	}
	if tags := strings.TrimSpace(c.PostForm("tags")); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				req.Tags = append(req.Tags, tag)
			}
		}
	}

	resp, err := s.gallerySvc.Create(c.Request.Context(), req)
	if err != nil {
		// The item row failed; drop the orphaned object.
		_ = s.storage.Remove(c.Request.Context(), key)
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetGalleryItem(c *gin.Context) {
	resp, err := s.gallerySvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateGalleryItem(c *gin.Context) {
	var req gallerydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.gallerySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteGalleryItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	item, err := s.gallerySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.gallerySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	if item.ObjectKey != nil {
		_ = s.storage.Remove(c.Request.Context(), *item.ObjectKey)
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "deleted"}})
}

func (s *Server) ReorderGalleryItems(c *gin.Context) {
	var req gallerydomain.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.gallerySvc.Reorder(c.Request.Context(), req)
	s.metrics.ObserveReorder("gallery", err == nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
