package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/catalog"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/customize"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/generator"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/packaging"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/palette"
	"github.com/yungbote/sitebuilder-backend/internal/observability"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

const (
	maxDescriptionLen = 5000
	maxTextEntries    = 50
	maxTextValueLen   = 2000
	maxImageURLLen    = 2048

	defaultGeneratorTimeout = 3 * time.Minute
)

var colorTokenRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,30}|(rgb|rgba|hsl|hsla)\(\s*[0-9.,%\s/]+\))$`)

type WebsiteConfig struct {
	GeneratorTimeout        time.Duration
	DownloadRequiresPremium bool
}

type GenerateInput struct {
	BusinessDescription string
	TemplateCategory    string
}

type CustomizeInput struct {
	ID     string
	Colors map[string]string
	Texts  map[string]string
	Images map[string]string
}

type WebsiteService interface {
	Generate(ctx context.Context, in GenerateInput) (*types.GenerationRequest, error)
	Customize(ctx context.Context, in CustomizeInput) (*types.GenerationRequest, error)
	Download(ctx context.Context, id string) (*packaging.Archive, error)
	Delete(ctx context.Context, id string) error
	ListMine(ctx context.Context) ([]*types.GenerationRequest, error)
	Get(ctx context.Context, id string) (*types.GenerationRequest, error)
	Preview(ctx context.Context, id string) (string, error)
	Palette(ctx context.Context, id string) ([]byte, error)
	Templates() []catalog.Template
}

type websiteService struct {
	log       *logger.Logger
	requests  repos.GenerationRequestRepo
	users     repos.UserRepo
	generator generator.Generator
	engine    *customize.Engine
	catalog   *catalog.Catalog
	cfg       WebsiteConfig
}

func NewWebsiteService(
	log *logger.Logger,
	requests repos.GenerationRequestRepo,
	users repos.UserRepo,
	gen generator.Generator,
	engine *customize.Engine,
	cat *catalog.Catalog,
	cfg WebsiteConfig,
) WebsiteService {
	if cfg.GeneratorTimeout <= 0 {
		cfg.GeneratorTimeout = defaultGeneratorTimeout
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &websiteService{
		log:       log.With("service", "WebsiteService"),
		requests:  requests,
		users:     users,
		generator: gen,
		engine:    engine,
		catalog:   cat,
		cfg:       cfg,
	}
}

func (ws *websiteService) Templates() []catalog.Template { return ws.catalog.List() }

// Generate stores a pending request and runs the generator on it. When the generator fails
// the pending record is kept and its id travels in the error details.
func (ws *websiteService) Generate(ctx context.Context, in GenerateInput) (out *types.GenerationRequest, err error) {
	defer observeOp("generate", &err)

	description := strings.TrimSpace(in.BusinessDescription)
	category := strings.TrimSpace(in.TemplateCategory)
	if description == "" {
		return nil, apierr.Validation("businessDescription is required")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, apierr.Validation("businessDescription must be at most %d characters", maxDescriptionLen)
	}
	if !ws.catalog.Has(category) {
		return nil, apierr.Validation("templateCategory must be one of %s", strings.Join(ws.catalog.IDs(), ", "))
	}

	var ownerID *uuid.UUID
	if caller := ctxutil.CallerID(ctx); caller != uuid.Nil {
		ownerID = &caller
	}

	row, err := ws.requests.Create(ctx, nil, description, category, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create generation request: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, ws.cfg.GeneratorTimeout)
	defer cancel()
	start := time.Now()
	gen, err := ws.generator.Generate(genCtx, description, category)
	if err != nil {
		ws.log.Warn("Website generation failed",
			"id", row.ID,
			"category", category,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, apierr.Upstream(err).WithDetail("id", row.ID.String())
	}

	updated, err := ws.requests.Update(ctx, nil, row.ID, repos.GenerationRequestPatch{
		GeneratedHTML: &gen.HTML,
		GeneratedCSS:  &gen.CSS,
		GeneratedJS:   &gen.JS,
	})
	if err != nil {
		return nil, fmt.Errorf("store generated website: %w", err)
	}
	ws.log.Info("Website ready", "id", updated.ID, "owner_id", ownerID, "duration_ms", time.Since(start).Milliseconds())
	return updated, nil
}

func (ws *websiteService) Customize(ctx context.Context, in CustomizeInput) (out *types.GenerationRequest, err error) {
	defer observeOp("customize", &err)

	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	d, err := validateDirectives(in)
	if err != nil {
		return nil, err
	}

	row, err := ws.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.IsGenerated() {
		return nil, apierr.NotReady("website not yet generated")
	}
	// Texts are stored as the editor receives them.
	if len(d.Texts) > 0 {
		d.Texts = ws.engine.SanitizeTexts(d.Texts)
		if len(d.Texts) == 0 {
			d.Texts = nil
		}
	}
	if d.IsEmpty() {
		return row, nil
	}

	res := ws.engine.Apply(ctx, row.HTML(), row.CSS(), d)
	patch := repos.GenerationRequestPatch{
		CustomColors: d.Colors,
		CustomTexts:  d.Texts,
		CustomImages: d.Images,
	}
	if res.Changed {
		patch.GeneratedHTML = &res.HTML
		patch.GeneratedCSS = &res.CSS
	}
	updated, err := ws.requests.Update(ctx, nil, id, patch)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return updated, nil
}

func (ws *websiteService) Download(ctx context.Context, rawID string) (out *packaging.Archive, err error) {
	defer observeOp("download", &err)

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	row, err := ws.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ws.checkPlan(ctx); err != nil {
		return nil, err
	}
	if !row.IsGenerated() {
		return nil, apierr.NotReady("website not yet generated")
	}
	archive, err := packaging.Build(row.ID.String(), row.HTML(), row.CSS(), row.JS())
	if err != nil {
		return nil, fmt.Errorf("package website: %w", err)
	}
	return archive, nil
}

// Delete removes a record owned by the caller. Anonymous records cannot be deleted.
func (ws *websiteService) Delete(ctx context.Context, rawID string) (err error) {
	defer observeOp("delete", &err)

	caller := ctxutil.CallerID(ctx)
	if caller == uuid.Nil {
		return apierr.Unauthorized("not authenticated")
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	row, err := ws.requests.GetByID(ctx, nil, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if !row.OwnedBy(caller) {
		return apierr.Forbidden("you do not own this website")
	}
	if err := ws.requests.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("delete generation request: %w", err)
	}
	ws.log.Info("Website deleted", "id", id, "owner_id", caller)
	return nil
}

func (ws *websiteService) ListMine(ctx context.Context) ([]*types.GenerationRequest, error) {
	caller := ctxutil.CallerID(ctx)
	if caller == uuid.Nil {
		return nil, apierr.Unauthorized("not authenticated")
	}
	rows, err := ws.requests.ListByOwner(ctx, nil, caller)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return rows, nil
}

func (ws *websiteService) Get(ctx context.Context, rawID string) (*types.GenerationRequest, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return ws.load(ctx, id)
}

func (ws *websiteService) Preview(ctx context.Context, rawID string) (string, error) {
	row, err := ws.Get(ctx, rawID)
	if err != nil {
		return "", err
	}
	if !row.IsGenerated() {
		return "", apierr.NotReady("website not yet generated")
	}
	return packaging.InlinePreview(row.HTML(), row.CSS(), row.JS()), nil
}

// Palette renders the colors the site currently uses. Stored custom colors win over the
// values declared in the stylesheet.
func (ws *websiteService) Palette(ctx context.Context, rawID string) ([]byte, error) {
	row, err := ws.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !row.IsGenerated() {
		return nil, apierr.NotReady("website not yet generated")
	}
	colors := customize.ExtractColors(row.CSS())
	for k, v := range site.StringMap(row.CustomColors) {
		if site.IsColorKey(k) && strings.TrimSpace(v) != "" {
			colors[strings.ToLower(k)] = v
		}
	}
	png, err := palette.Render(colors)
	if err != nil {
		return nil, fmt.Errorf("render palette: %w", err)
	}
	return png, nil
}

// load fetches a record and enforces ownership. Records without an owner are open to
// anyone holding the id.
func (ws *websiteService) load(ctx context.Context, id uuid.UUID) (*types.GenerationRequest, error) {
	row, err := ws.requests.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if row.OwnerID != nil && !row.OwnedBy(ctxutil.CallerID(ctx)) {
		return nil, apierr.Forbidden("you do not own this website")
	}
	return row, nil
}

// checkPlan gates downloads on the caller's plan. Anonymous callers must log in first,
// whoever owns the record.
func (ws *websiteService) checkPlan(ctx context.Context) error {
	if !ws.cfg.DownloadRequiresPremium {
		return nil
	}
	caller := ctxutil.CallerID(ctx)
	if caller == uuid.Nil {
		return apierr.Unauthorized("log in to download your website")
	}
	users, err := ws.users.GetByIDs(ctx, nil, []uuid.UUID{caller})
	if err != nil {
		return fmt.Errorf("load caller: %w", err)
	}
	if len(users) == 0 || !users[0].IsPremium() {
		return apierr.PaymentRequired("downloading requires a premium plan")
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apierr.Validation("id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid id %q", raw)
	}
	return id, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, repos.ErrGenerationRequestNotFound) {
		return apierr.NotFound("website not found")
	}
	return err
}

// validateDirectives checks every directive value and drops the empty ones, which are
// no-ops downstream.
func validateDirectives(in CustomizeInput) (customize.Directives, error) {
	var d customize.Directives

	for k, v := range in.Colors {
		key := strings.ToLower(strings.TrimSpace(k))
		if !site.IsColorKey(key) {
			return d, apierr.Validation("unknown color %q", k)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !colorTokenRe.MatchString(v) {
			return d, apierr.Validation("invalid color value for %s", key)
		}
		if d.Colors == nil {
			d.Colors = map[string]string{}
		}
		d.Colors[key] = v
	}

	if len(in.Texts) > maxTextEntries {
		return d, apierr.Validation("at most %d text replacements are allowed", maxTextEntries)
	}
	for k, v := range in.Texts {
		key := strings.TrimSpace(k)
		if key == "" {
			return d, apierr.Validation("text keys must not be empty")
		}
		if utf8.RuneCountInString(v) > maxTextValueLen {
			return d, apierr.Validation("text %q must be at most %d characters", key, maxTextValueLen)
		}
		if strings.TrimSpace(v) == "" {
			continue
		}
		if d.Texts == nil {
			d.Texts = map[string]string{}
		}
		d.Texts[key] = v
	}

	for k, v := range in.Images {
		key := strings.ToLower(strings.TrimSpace(k))
		if key != site.ImageLogo && key != site.ImageHero {
			return d, apierr.Validation("unknown image slot %q", k)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !validImageURL(v) {
			return d, apierr.Validation("invalid image URL for %s", key)
		}
		if d.Images == nil {
			d.Images = map[string]string{}
		}
		d.Images[key] = v
	}
	return d, nil
}

func validImageURL(v string) bool {
	if len(v) > maxImageURLLen || strings.ContainsAny(v, "\"'<> \t\r\n") {
		return false
	}
	if strings.HasPrefix(v, "data:image/") {
		return true
	}
	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") {
		return true
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func observeOp(op string, errp *error) {
	outcome := "ok"
	if errp != nil && *errp != nil {
		outcome = apierr.CodeOf(*errp)
		if outcome == "" {
			outcome = apierr.CodeInternal
		}
	}
	observability.Current().ObserveWebsiteOp(op, outcome)
}
