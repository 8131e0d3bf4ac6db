package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/normalization"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateName(ctx context.Context, name string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID := ctxutil.CallerID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	return us.GetByID(ctx, userID)
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	found, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, apierr.NotFound("user does not exist")
	}
	return found[0], nil
}

func (us *userService) UpdateName(ctx context.Context, name string) (*types.User, error) {
	userID := ctxutil.CallerID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	name = normalization.CleanText(name)
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, apierr.Validation("name must be at most %d characters", maxNameLen)
	}

	var out *types.User
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.userRepo.UpdateName(ctx, tx, userID, name); err != nil {
			if errors.Is(err, repos.ErrUserNotFound) {
				return apierr.NotFound("user does not exist")
			}
			return err
		}
		found, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return apierr.NotFound("user does not exist")
		}
		out = found[0]
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}
