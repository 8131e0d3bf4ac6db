package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/normalization"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt ignores anything longer
	maxNameLen     = 120
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, TokenPair, error)
	LoginUser(ctx context.Context, email, password string) (TokenPair, error)
	RefreshUser(ctx context.Context, refreshToken string) (TokenPair, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, TokenPair, error) {
	email := normalization.ParseInputString(in.Email)
	name := normalization.CleanText(in.Name)
	if err := validateCredentials(email, in.Password); err != nil {
		return nil, TokenPair{}, err
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, TokenPair{}, apierr.Validation("name must be at most %d characters", maxNameLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		Email:    email,
		Password: string(hash),
		Name:     name,
		Plan:     types.PlanFree,
	}
	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := as.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return errEmailTaken()
		}
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			if isUniqueViolation(err) {
				return errEmailTaken()
			}
			return fmt.Errorf("create user: %w", err)
		}
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, TokenPair{}, err
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, pair, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (TokenPair, error) {
	email = normalization.ParseInputString(email)
	if email == "" || password == "" {
		return TokenPair{}, apierr.Validation("email and password are required")
	}

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return TokenPair{}, fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 {
		return TokenPair{}, apierr.Unauthorized("invalid email or password")
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return TokenPair{}, apierr.Unauthorized("invalid email or password")
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pair, err = as.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// RefreshUser rotates a refresh token. The old pair is revoked in the same transaction.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, apierr.Validation("refresh_token is required")
	}

	var pair TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return apierr.Unauthorized("invalid refresh token")
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("delete expired refresh token: %w", err)
			}
			return apierr.Unauthorized("refresh token expired")
		}

		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("no user for refresh token")
		}
		if err := as.userTokenRepo.FullDeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("revoke old refresh token: %w", err)
		}
		pair, err = as.issueTokens(ctx, tx, users[0])
		return err
	})
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized("not authenticated")
	}
	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{rd.TokenString})
	if err != nil {
		return fmt.Errorf("load access token: %w", err)
	}
	if len(found) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, t := range found {
		ids = append(ids, t.ID)
	}
	return as.userTokenRepo.FullDeleteByIDs(ctx, nil, ids)
}

// SetContextFromToken validates an access token and attaches the caller to ctx. Tokens
// whose session row was revoked are rejected even when the JWT itself is still valid.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, errors.New("invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("failed to fetch user token: %w", err)
	}
	if len(found) == 0 {
		return ctx, errors.New("token revoked")
	}

	rd := &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: found[0].RefreshToken,
		UserID:       userID,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(ctx context.Context, tx *gorm.DB, user *types.User) (TokenPair, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{row}); err != nil {
		as.log.Warn("Create user token failed", "error", err)
		return TokenPair{}, fmt.Errorf("create user token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func validateCredentials(email, password string) error {
	if email == "" {
		return apierr.Validation("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return apierr.Validation("invalid email address")
	}
	if len(password) < minPasswordLen {
		return apierr.Validation("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return apierr.Validation("password must be at most %d bytes", maxPasswordLen)
	}
	return nil
}

func errEmailTaken() error {
	return apierr.Validation("email already registered")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
