package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sparklinkhq/sparklink/internal/auth"
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	"github.com/sparklinkhq/sparklink/internal/auth/session"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/config"
	"github.com/sparklinkhq/sparklink/internal/export"
	exportdomain "github.com/sparklinkhq/sparklink/internal/export/domain"
	"github.com/sparklinkhq/sparklink/internal/gallery"
	gallerydomain "github.com/sparklinkhq/sparklink/internal/gallery/domain"
	"github.com/sparklinkhq/sparklink/internal/metrics"
	"github.com/sparklinkhq/sparklink/internal/page"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	"github.com/sparklinkhq/sparklink/internal/profile"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/publicsite"
	publicsitedomain "github.com/sparklinkhq/sparklink/internal/publicsite/domain"
	"github.com/sparklinkhq/sparklink/internal/storage"
	"github.com/sparklinkhq/sparklink/internal/template"
	templatedomain "github.com/sparklinkhq/sparklink/internal/template/domain"
	"github.com/sparklinkhq/sparklink/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	config.Module,
	db.Module,
	clock.Module,
	metrics.Module,
	storage.Module,
	auth.Module,
	profile.Module,
	page.Module,
	gallery.Module,
	template.Module,
	publicsite.Module,
	export.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, m, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	genID         *snowflake.Node
	sessions      *session.Manager
	metrics       *metrics.Metrics
	storage       *storage.Client
	authSvc       authdomain.Service
	profileSvc    profiledomain.Service
	pageSvc       pagedomain.Service
	gallerySvc    gallerydomain.Service
	templateSvc   templatedomain.Service
	publicSiteSvc publicsitedomain.Service
	exportSvc     exportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	GenID         *snowflake.Node
	Sessions      *session.Manager
	Metrics       *metrics.Metrics
	Storage       *storage.Client
	AuthSvc       authdomain.Service
	ProfileSvc    profiledomain.Service
	PageSvc       pagedomain.Service
	GallerySvc    gallerydomain.Service
	TemplateSvc   templatedomain.Service
	PublicSiteSvc publicsitedomain.Service
	ExportSvc     exportdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		genID:         p.GenID,
		sessions:      p.Sessions,
		metrics:       p.Metrics,
		storage:       p.Storage,
		authSvc:       p.AuthSvc,
		profileSvc:    p.ProfileSvc,
		pageSvc:       p.PageSvc,
		gallerySvc:    p.GallerySvc,
		templateSvc:   p.TemplateSvc,
		publicSiteSvc: p.PublicSiteSvc,
		exportSvc:     p.ExportSvc,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()
	s.registerPublicRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", s.AuthRequired(), s.ProfileContext())

	v1.GET("/profile", s.GetProfile)
	v1.PATCH("/profile", s.UpdateProfile)
	v1.POST("/profile/publish", s.PublishProfile)
	v1.POST("/profile/unpublish", s.UnpublishProfile)
	v1.POST("/profile/subscription", s.ChangeSubscription)

	v1.GET("/tiers", s.ListTiers)

	v1.GET("/pages", s.ListPages)
	v1.POST("/pages", s.CreatePage)
	v1.GET("/pages/:id", s.GetPage)
	v1.PATCH("/pages/:id", s.UpdatePage)
	v1.DELETE("/pages/:id", s.DeletePage)
	v1.POST("/pages/reorder", s.ReorderPages)
	v1.GET("/pages/:id/export", s.ExportResume)

	v1.GET("/gallery", s.ListGalleryItems)
	v1.POST("/gallery", s.CreateGalleryItem)
	v1.POST("/gallery/upload", s.UploadGalleryImage)
	v1.GET("/gallery/:id", s.GetGalleryItem)
	v1.PATCH("/gallery/:id", s.UpdateGalleryItem)
	v1.DELETE("/gallery/:id", s.DeleteGalleryItem)
	v1.POST("/gallery/reorder", s.ReorderGalleryItems)

	v1.GET("/templates", s.ListTemplates)
	v1.GET("/templates/:id", s.GetTemplate)
	v1.POST("/templates/:id/apply", s.ApplyTemplate)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/p")

	public.GET("/:username", s.ResolveSite)
	public.POST("/:username/pages/:slug/unlock", s.UnlockPage)
}
