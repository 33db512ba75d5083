package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/tier"
)

func (s *Server) GetProfile(c *gin.Context) {
	resp, err := s.profileSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req profiledomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.profileSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PublishProfile(c *gin.Context) {
	s.setPublished(c, true)
}

func (s *Server) UnpublishProfile(c *gin.Context) {
	s.setPublished(c, false)
}

func (s *Server) setPublished(c *gin.Context, published bool) {
	resp, err := s.profileSvc.SetPublished(c.Request.Context(), published)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.invalidatePublicSite(c)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type ChangeSubscriptionRequest struct {
	Tier string `json:"tier"`
}

func (s *Server) ChangeSubscription(c *gin.Context) {
	var req ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.profileSvc.ChangeTier(c.Request.Context(), strings.TrimSpace(req.Tier))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type TierResponse struct {
	Tier   tier.Tier   `json:"tier"`
	Limits tier.Limits `json:"limits"`
}

func (s *Server) ListTiers(c *gin.Context) {
	tiers := tier.All()
	resp := make([]TierResponse, 0, len(tiers))
	for _, t := range tiers {
		resp = append(resp, TierResponse{Tier: t, Limits: tier.LimitsFor(t)})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
