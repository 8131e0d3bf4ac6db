package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

type Repos struct {
	User              repos.UserRepo
	UserToken         repos.UserTokenRepo
	GenerationRequest repos.GenerationRequestRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		UserToken:         repos.NewUserTokenRepo(db, log),
		GenerationRequest: repos.NewGenerationRequestRepo(db, log),
	}
}
