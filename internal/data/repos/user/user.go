package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

var ErrNotFound = errors.New("user not found")

// UserRepo stores accounts. Emails are matched case-insensitively; callers may pass them
// in any case.
type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error)
	UpdateName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) error
	UpdatePlan(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = ur.db
	}
	return tx.WithContext(ctx)
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	}
	if err := ur.conn(ctx, tx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var rows []*types.User
	if len(userIDs) == 0 {
		return rows, nil
	}
	err := ur.conn(ctx, tx).Where("id IN ?", userIDs).Find(&rows).Error
	return rows, err
}

func (ur *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
	var rows []*types.User
	emails := normalizeEmails(userEmails)
	if len(emails) == 0 {
		return rows, nil
	}
	err := ur.conn(ctx, tx).Where("email IN ?", emails).Order("email ASC").Find(&rows).Error
	return rows, err
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
	emails := normalizeEmails([]string{userEmail})
	if len(emails) == 0 {
		return false, nil
	}
	var n int64
	if err := ur.conn(ctx, tx).Model(&types.User{}).Where("email = ?", emails[0]).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (ur *userRepo) UpdateName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) error {
	return ur.updateColumn(ctx, tx, userID, "name", name)
}

// UpdatePlan moves an account between plans. Unknown plans are rejected before touching
// the row.
func (ur *userRepo) UpdatePlan(ctx context.Context, tx *gorm.DB, userID uuid.UUID, plan string) error {
	if plan != types.PlanFree && plan != types.PlanPremium {
		return fmt.Errorf("unknown plan %q", plan)
	}
	if err := ur.updateColumn(ctx, tx, userID, "plan", plan); err != nil {
		return err
	}
	ur.log.Info("Plan changed", "user_id", userID, "plan", plan)
	return nil
}

func (ur *userRepo) updateColumn(ctx context.Context, tx *gorm.DB, userID uuid.UUID, column string, value any) error {
	res := ur.conn(ctx, tx).Model(&types.User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
