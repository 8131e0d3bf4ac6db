package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/modules/website/catalog"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/customize"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/generator"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
	"github.com/yungbote/sitebuilder-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	User    services.UserService
	Website services.WebsiteService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	gen := generator.New(log, clients.OpenAI)
	return Services{
		Auth: services.NewAuthService(
			db,
			log,
			reposet.User,
			reposet.UserToken,
			cfg.JWTSecretKey,
			cfg.AccessTokenTTL,
			cfg.RefreshTokenTTL,
		),
		User: services.NewUserService(db, log, reposet.User),
		Website: services.NewWebsiteService(
			log,
			reposet.GenerationRequest,
			reposet.User,
			gen,
			customize.NewEngine(log, gen),
			catalog.Default(),
			services.WebsiteConfig{
				GeneratorTimeout:        cfg.GeneratorTimeout,
				DownloadRequiresPremium: cfg.DownloadRequiresPremium,
			},
		),
	}
}
