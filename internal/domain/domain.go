package domain

import (
	"github.com/yungbote/sitebuilder-backend/internal/domain/auth"
	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
	"github.com/yungbote/sitebuilder-backend/internal/domain/user"
)

type (
	User              = user.User
	UserToken         = auth.UserToken
	GenerationRequest = site.GenerationRequest
)

const (
	PlanFree    = user.PlanFree
	PlanPremium = user.PlanPremium
)
