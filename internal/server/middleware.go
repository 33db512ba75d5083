package server

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"go.uber.org/zap"
)

const (
	contextUserIDKey   = "user_id"
	contextProfileKey  = "profile"
	contextUsernameKey = "username"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// AuthRequired resolves the session cookie into a user id.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, sess.UserID)
		c.Next()
	}
}

// ProfileContext loads the caller's profile and threads its id through the
// request context for the domain services. Runs after AuthRequired.
func (s *Server) ProfileContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := s.currentUserID(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.GetUser(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		resp, err := s.profileSvc.EnsureForUser(c.Request.Context(), userID, user.Username)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		profileID, err := snowflake.ParseString(resp.ID)
		if err != nil {
			AbortWithError(c, ErrInternal)
			return
		}

		c.Set(contextProfileKey, resp)
		c.Set(contextUsernameKey, user.Username)
		ctx := profilectx.WithProfileID(c.Request.Context(), profileID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) currentUserID(c *gin.Context) (snowflake.ID, bool) {
	v, ok := c.Get(contextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(snowflake.ID)
	return id, ok
}

// currentUsername is set by ProfileContext; used to bust the public site
// cache after mutations.
func (s *Server) currentUsername(c *gin.Context) string {
	v, ok := c.Get(contextUsernameKey)
	if !ok {
		return ""
	}
	username, _ := v.(string)
	return username
}

func (s *Server) invalidatePublicSite(c *gin.Context) {
	if username := s.currentUsername(c); username != "" {
		s.publicSiteSvc.Invalidate(c.Request.Context(), username)
	}
}
