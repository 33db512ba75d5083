package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	"github.com/sparklinkhq/sparklink/internal/auth/password"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	templatedomain "github.com/sparklinkhq/sparklink/internal/template/domain"
	templaterepository "github.com/sparklinkhq/sparklink/internal/template/repository"
	"github.com/sparklinkhq/sparklink/internal/tier"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	demoUsername    = "demo"
	demoEmail       = "demo@sparklink.local"
	demoPassword    = "demo-password"
	demoDisplayName = "Demo Maker"
)

func strPtr(s string) *string { return &s }

// defaultTemplates is the built-in catalog. Codes are stable; reseeding
// updates the other columns in place.
func defaultTemplates() []templatedomain.Template {
	return []templatedomain.Template{
		{
			Code:         "minimal",
			Name:         "Minimal",
			Description:  strPtr("A single-column layout with generous whitespace."),
			RequiredTier: string(tier.Starter),
		},
		{
			Code:         "grid",
			Name:         "Grid",
			Description:  strPtr("Card-based grid for project-heavy portfolios."),
			RequiredTier: string(tier.Starter),
		},
		{
			Code:         "editorial",
			Name:         "Editorial",
			Description:  strPtr("Magazine-style layout with large type."),
			RequiredTier: string(tier.Rise),
		},
		{
			Code:         "darkroom",
			Name:         "Darkroom",
			Description:  strPtr("Photography-first template with full-bleed galleries."),
			RequiredTier: string(tier.Rise),
			ColorSchemes: datatypes.NewJSONSlice([]string{"midnight", "mono"}),
		},
		{
			Code:         "studio",
			Name:         "Studio",
			Description:  strPtr("Agency-grade template with case-study sections."),
			RequiredTier: string(tier.Blaze),
		},
	}
}

// EnsureDefaultTemplates upserts the built-in template catalog.
func EnsureDefaultTemplates(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	repo := templaterepository.Provide()
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, tmpl := range defaultTemplates() {
			tmpl.ID = node.Generate()
			tmpl.IsActive = true
			if err := repo.Upsert(ctx, tx, &tmpl); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoAccount seeds a demo user and profile for local development.
// Never called in production.
func EnsureDemoAccount(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.User
		err := tx.WithContext(ctx).Where("username = ?", demoUsername).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := password.Hash(demoPassword)
		if err != nil {
			return err
		}
		user := authdomain.User{
			ID:           node.Generate(),
			Username:     demoUsername,
			Email:        demoEmail,
			PasswordHash: hash,
		}
		if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}

		headline := "Designer, printmaker, maker of things"
		profile := profiledomain.Profile{
			ID:           node.Generate(),
			UserID:       user.ID,
			DisplayName:  demoDisplayName,
			Headline:     &headline,
			Subscription: string(tier.Rise),
		}
		return tx.WithContext(ctx).Create(&profile).Error
	})
}
