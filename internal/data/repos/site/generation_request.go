package site

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

var ErrNotFound = errors.New("generation request not found")

// GenerationRequestPatch is a partial update. Nil scalar fields are left alone; the custom
// maps are merged key by key into what is stored.
type GenerationRequestPatch struct {
	GeneratedHTML *string
	GeneratedCSS  *string
	GeneratedJS   *string

	CustomColors map[string]string
	CustomTexts  map[string]string
	CustomImages map[string]string
}

func (p GenerationRequestPatch) IsEmpty() bool {
	return p.GeneratedHTML == nil && p.GeneratedCSS == nil && p.GeneratedJS == nil &&
		len(p.CustomColors) == 0 && len(p.CustomTexts) == 0 && len(p.CustomImages) == 0
}

type GenerationRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, description, category string, ownerID *uuid.UUID) (*types.GenerationRequest, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationRequest, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, patch GenerationRequestPatch) (*types.GenerationRequest, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.GenerationRequest, error)
}

type generationRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRequestRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRequestRepo {
	repoLog := baseLog.With("repo", "GenerationRequestRepo")
	return &generationRequestRepo{db: db, log: repoLog}
}

func (r *generationRequestRepo) Create(ctx context.Context, tx *gorm.DB, description, category string, ownerID *uuid.UUID) (*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	row := &types.GenerationRequest{
		OwnerID:             ownerID,
		BusinessDescription: description,
		TemplateCategory:    category,
		CustomColors:        datatypes.JSONMap{},
		CustomTexts:         datatypes.JSONMap{},
		CustomImages:        datatypes.JSONMap{},
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *generationRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.GenerationRequest
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *generationRequestRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, patch GenerationRequestPatch) (*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var out *types.GenerationRequest
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		row, err := r.GetByID(ctx, txx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			out = row
			return nil
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if patch.GeneratedHTML != nil {
			row.GeneratedHTML = patch.GeneratedHTML
			updates["generated_html"] = *patch.GeneratedHTML
		}
		if patch.GeneratedCSS != nil {
			row.GeneratedCSS = patch.GeneratedCSS
			updates["generated_css"] = *patch.GeneratedCSS
		}
		if patch.GeneratedJS != nil {
			row.GeneratedJS = patch.GeneratedJS
			updates["generated_js"] = *patch.GeneratedJS
		}
		if len(patch.CustomColors) > 0 {
			row.CustomColors = mergeJSONMap(row.CustomColors, patch.CustomColors)
			updates["custom_colors"] = row.CustomColors
		}
		if len(patch.CustomTexts) > 0 {
			row.CustomTexts = mergeJSONMap(row.CustomTexts, patch.CustomTexts)
			updates["custom_texts"] = row.CustomTexts
		}
		if len(patch.CustomImages) > 0 {
			row.CustomImages = mergeJSONMap(row.CustomImages, patch.CustomImages)
			updates["custom_images"] = row.CustomImages
		}

		if err := txx.Model(&types.GenerationRequest{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return err
		}
		row.UpdatedAt = updates["updated_at"].(time.Time)
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete hard-deletes the record. Deleting a missing id is not an error.
func (r *generationRequestRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.GenerationRequest{}).Error
}

func (r *generationRequestRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.GenerationRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	results := []*types.GenerationRequest{}
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func mergeJSONMap(current datatypes.JSONMap, incoming map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(current)+len(incoming))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}
