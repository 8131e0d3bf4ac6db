package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		Name:     "Test User",
		Plan:     types.PlanFree,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedGenerated inserts a record that has already been through the generator.
func SeedGenerated(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID *uuid.UUID, html, css, js string) *types.GenerationRequest {
	tb.Helper()
	g := &types.GenerationRequest{
		OwnerID:             ownerID,
		BusinessDescription: "seeded business",
		TemplateCategory:    site.CategoryServices,
		GeneratedHTML:       &html,
		GeneratedCSS:        &css,
		GeneratedJS:         &js,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed generation request: %v", err)
	}
	return g
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrString(v string) *string { return &v }
