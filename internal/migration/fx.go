package migration

import (
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	"github.com/sparklinkhq/sparklink/internal/config"
	gallerydomain "github.com/sparklinkhq/sparklink/internal/gallery/domain"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/seed"
	templatedomain "github.com/sparklinkhq/sparklink/internal/template/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql deployments are schema-managed by gorm.
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&profiledomain.Profile{},
				&pagedomain.Page{},
				&gallerydomain.GalleryItem{},
				&templatedomain.Template{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureDefaultTemplates(conn); err != nil {
			return err
		}
		if cfg.SeedDemoAccount && !cfg.IsProduction() {
			return seed.EnsureDemoAccount(conn)
		}
		return nil
	}),
)
