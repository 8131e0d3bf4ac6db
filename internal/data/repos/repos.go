package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos/auth"
	"github.com/yungbote/sitebuilder-backend/internal/data/repos/site"
	"github.com/yungbote/sitebuilder-backend/internal/data/repos/user"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo
type GenerationRequestRepo = site.GenerationRequestRepo
type GenerationRequestPatch = site.GenerationRequestPatch

var (
	ErrGenerationRequestNotFound = site.ErrNotFound
	ErrUserNotFound              = user.ErrNotFound
)

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewGenerationRequestRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRequestRepo {
	return site.NewGenerationRequestRepo(db, baseLog)
}
