package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/sitebuilder-backend/internal/data/repos"
	"github.com/yungbote/sitebuilder-backend/internal/data/repos/testutil"
	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/catalog"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/customize"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/generator"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/ctxutil"
)

const (
	testHTML = `<!DOCTYPE html><html><head><link rel="stylesheet" href="styles.css"></head><body>` +
		`<img class="logo" src="/logo.png"><img class="hero" src="/hero.jpg"><h1>Fontanería</h1>` +
		`<script src="script.js"></script></body></html>`
	testCSS = ":root {\n  --primary-color: #2563eb;\n  --secondary-color: #1e293b;\n  --accent-color: #f59e0b;\n}\n"
	testJS  = "console.log('hola');"
)

type fakeGenerator struct {
	out      generator.Generated
	err      error
	editOut  string
	editErr  error
	calls    int
	editCall int
	edited   map[string]string
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (generator.Generated, error) {
	f.calls++
	if f.err != nil {
		return generator.Generated{}, f.err
	}
	return f.out, nil
}

func (f *fakeGenerator) EditTexts(_ context.Context, html string, texts map[string]string) (string, error) {
	f.editCall++
	f.edited = texts
	if f.editErr != nil {
		return "", f.editErr
	}
	if f.editOut == "" {
		return html, nil
	}
	return f.editOut, nil
}

type websiteFixture struct {
	svc      WebsiteService
	gen      *fakeGenerator
	requests repos.GenerationRequestRepo
	users    repos.UserRepo
}

func newWebsiteFixture(t *testing.T, cfg WebsiteConfig) *websiteFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	gen := &fakeGenerator{out: generator.Generated{HTML: testHTML, CSS: testCSS, JS: testJS}}
	requests := repos.NewGenerationRequestRepo(db, log)
	users := repos.NewUserRepo(db, log)
	svc := NewWebsiteService(log, requests, users, gen, customize.NewEngine(log, gen), catalog.Default(), cfg)
	return &websiteFixture{svc: svc, gen: gen, requests: requests, users: users}
}

func asUser(ctx context.Context, id uuid.UUID) context.Context {
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: id})
}

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	ae, ok := apierr.As(err)
	require.True(t, ok, "expected api error, got %v", err)
	assert.Equal(t, status, ae.Status)
	assert.Equal(t, code, ae.Code)
}

func TestGenerateStoresGeneratedWebsite(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{
		BusinessDescription: "  Plumber in Madrid, 24h emergencies  ",
		TemplateCategory:    site.CategoryServices,
	})
	require.NoError(t, err)

	assert.True(t, rec.IsGenerated())
	assert.Equal(t, testHTML, rec.HTML())
	assert.Equal(t, testCSS, rec.CSS())
	assert.Equal(t, testJS, rec.JS())
	assert.Equal(t, "Plumber in Madrid, 24h emergencies", rec.BusinessDescription)
	assert.Nil(t, rec.OwnerID)

	stored, err := f.requests.GetByID(ctx, nil, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, testHTML, stored.HTML())
}

func TestGenerateRecordsOwner(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	owner := uuid.New()

	rec, err := f.svc.Generate(asUser(context.Background(), owner), GenerateInput{
		BusinessDescription: "Café",
		TemplateCategory:    site.CategoryRestaurant,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.OwnerID)
	assert.Equal(t, owner, *rec.OwnerID)
}

func TestGenerateFailureLeavesPendingRecord(t *testing.T) {
	for name, genErr := range map[string]error{
		"upstream":   errors.New("model unavailable"),
		"empty html": generator.ErrEmptyHTML,
	} {
		t.Run(name, func(t *testing.T) {
			f := newWebsiteFixture(t, WebsiteConfig{})
			f.gen.err = genErr
			ctx := context.Background()

			_, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "Tienda", TemplateCategory: site.CategoryShop})
			requireCode(t, err, http.StatusBadGateway, apierr.CodeGenerationFailed)
			assert.ErrorIs(t, err, genErr)

			ae, _ := apierr.As(err)
			rawID, ok := ae.Details["id"].(string)
			require.True(t, ok)
			id, perr := uuid.Parse(rawID)
			require.NoError(t, perr)

			stored, err := f.requests.GetByID(ctx, nil, id)
			require.NoError(t, err)
			assert.False(t, stored.IsGenerated())
		})
	}
}

func TestGenerateValidation(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	cases := []GenerateInput{
		{BusinessDescription: "   ", TemplateCategory: site.CategoryShop},
		{BusinessDescription: strings.Repeat("a", maxDescriptionLen+1), TemplateCategory: site.CategoryShop},
		{BusinessDescription: "Panadería", TemplateCategory: "bakery"},
	}
	for _, in := range cases {
		_, err := f.svc.Generate(ctx, in)
		requireCode(t, err, http.StatusBadRequest, apierr.CodeInvalidRequest)
	}
	assert.Equal(t, 0, f.gen.calls)
}

func TestCustomizePendingIsNotReady(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	pending, err := f.requests.Create(ctx, nil, "x", site.CategoryShop, nil)
	require.NoError(t, err)

	_, err = f.svc.Customize(ctx, CustomizeInput{
		ID:     pending.ID.String(),
		Colors: map[string]string{"primary": "#ff0000"},
	})
	requireCode(t, err, http.StatusConflict, apierr.CodeNotReady)

	stored, err := f.requests.GetByID(ctx, nil, pending.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsGenerated())
	assert.Empty(t, stored.CustomColors)
}

func TestCustomizeAppliesAndMergesDirectives(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "Fontanero", TemplateCategory: site.CategoryServices})
	require.NoError(t, err)

	out, err := f.svc.Customize(ctx, CustomizeInput{
		ID:     rec.ID.String(),
		Colors: map[string]string{"primary": "#ff0000"},
		Images: map[string]string{"logo": "https://cdn.example.com/l.png"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.CSS(), "--primary-color: #ff0000;")
	assert.Contains(t, out.CSS(), "--secondary-color: #1e293b;")
	assert.Contains(t, out.HTML(), `<img class="logo" src="https://cdn.example.com/l.png">`)
	assert.Contains(t, out.HTML(), `<img class="hero" src="/hero.jpg">`)

	out, err = f.svc.Customize(ctx, CustomizeInput{
		ID:     rec.ID.String(),
		Colors: map[string]string{"accent": "#00ff00"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"primary": "#ff0000", "accent": "#00ff00"}, site.StringMap(out.CustomColors))
	assert.Equal(t, map[string]string{"logo": "https://cdn.example.com/l.png"}, site.StringMap(out.CustomImages))
	assert.Contains(t, out.CSS(), "--primary-color: #ff0000;")
	assert.Contains(t, out.CSS(), "--accent-color: #00ff00;")
}

func TestCustomizeEmptyRequestIsNoop(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	out, err := f.svc.Customize(ctx, CustomizeInput{ID: rec.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, rec.HTML(), out.HTML())
	assert.Equal(t, rec.CSS(), out.CSS())
	assert.Equal(t, 0, f.gen.editCall)
}

func TestCustomizeTextFailureKeepsHTML(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	f.gen.editErr = errors.New("timeout")
	out, err := f.svc.Customize(ctx, CustomizeInput{
		ID:    rec.ID.String(),
		Texts: map[string]string{"title": "Fontanería López"},
	})
	require.NoError(t, err)
	assert.Equal(t, testHTML, out.HTML())
	assert.Equal(t, 1, f.gen.editCall)
	assert.Equal(t, "Fontanería López", site.StringMap(out.CustomTexts)["title"])
}

func TestCustomizeStoresSanitizedTexts(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	out, err := f.svc.Customize(ctx, CustomizeInput{
		ID:    rec.ID.String(),
		Texts: map[string]string{"title": "<b>Fontanería</b> <script>alert(1)</script>López", "tagline": "<i></i>"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Fontanería López"}, f.gen.edited)
	assert.Equal(t, map[string]string{"title": "Fontanería López"}, site.StringMap(out.CustomTexts))

	// Values that are nothing but markup leave the record untouched.
	again, err := f.svc.Customize(ctx, CustomizeInput{ID: rec.ID.String(), Texts: map[string]string{"title": "<i> </i>"}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.gen.editCall)
	assert.Equal(t, "Fontanería López", site.StringMap(again.CustomTexts)["title"])
}

func TestCustomizeValidation(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)
	id := rec.ID.String()

	bad := []CustomizeInput{
		{ID: "not-a-uuid"},
		{ID: id, Colors: map[string]string{"primary": "red; } body { display:none"}},
		{ID: id, Colors: map[string]string{"tertiary": "#fff"}},
		{ID: id, Images: map[string]string{"logo": `javascript:alert(1)`}},
		{ID: id, Images: map[string]string{"hero": `https://x.com/a.png" onload="x`}},
		{ID: id, Images: map[string]string{"footer": "https://x.com/a.png"}},
	}
	for _, in := range bad {
		_, err := f.svc.Customize(ctx, in)
		requireCode(t, err, http.StatusBadRequest, apierr.CodeInvalidRequest)
	}

	_, err = f.svc.Customize(ctx, CustomizeInput{ID: uuid.NewString(), Colors: map[string]string{"primary": "#fff"}})
	requireCode(t, err, http.StatusNotFound, apierr.CodeNotFound)
}

func TestOwnedRecordsAreRestricted(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	owner, stranger := uuid.New(), uuid.New()
	ownerCtx := asUser(context.Background(), owner)

	rec, err := f.svc.Generate(ownerCtx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)
	id := rec.ID.String()

	for _, ctx := range []context.Context{context.Background(), asUser(context.Background(), stranger)} {
		_, err = f.svc.Customize(ctx, CustomizeInput{ID: id, Colors: map[string]string{"primary": "#fff"}})
		requireCode(t, err, http.StatusForbidden, apierr.CodeForbidden)
		_, err = f.svc.Download(ctx, id)
		requireCode(t, err, http.StatusForbidden, apierr.CodeForbidden)
		_, err = f.svc.Get(ctx, id)
		requireCode(t, err, http.StatusForbidden, apierr.CodeForbidden)
	}

	_, err = f.svc.Customize(ownerCtx, CustomizeInput{ID: id, Colors: map[string]string{"primary": "#fff"}})
	require.NoError(t, err)
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var out []string
	for _, f := range zr.File {
		out = append(out, f.Name)
	}
	sort.Strings(out)
	return out
}

func TestDownload(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	archive, err := f.svc.Download(ctx, rec.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "mi-web-"+rec.ID.String()+".zip", archive.FileName)
	assert.Equal(t, []string{"README.md", "index.html", "script.js", "styles.css"}, zipNames(t, archive.Data))

	pending, err := f.requests.Create(ctx, nil, "y", site.CategoryShop, nil)
	require.NoError(t, err)
	_, err = f.svc.Download(ctx, pending.ID.String())
	requireCode(t, err, http.StatusConflict, apierr.CodeNotReady)

	_, err = f.svc.Download(ctx, uuid.NewString())
	requireCode(t, err, http.StatusNotFound, apierr.CodeNotFound)
}

func TestDownloadPlanGate(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{DownloadRequiresPremium: true})
	ctx := context.Background()

	created, err := f.users.Create(ctx, nil, []*types.User{{Email: uuid.NewString() + "@example.com", Password: "x"}})
	require.NoError(t, err)
	free := created[0]
	ownerCtx := asUser(ctx, free.ID)

	rec, err := f.svc.Generate(ownerCtx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)
	anon, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "y", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	_, err = f.svc.Download(ownerCtx, rec.ID.String())
	requireCode(t, err, http.StatusPaymentRequired, apierr.CodePaymentRequired)

	// An anonymous record does not let a free caller around the gate.
	_, err = f.svc.Download(ownerCtx, anon.ID.String())
	requireCode(t, err, http.StatusPaymentRequired, apierr.CodePaymentRequired)

	_, err = f.svc.Download(ctx, anon.ID.String())
	requireCode(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)

	require.NoError(t, f.users.UpdatePlan(ctx, nil, free.ID, types.PlanPremium))
	_, err = f.svc.Download(ownerCtx, rec.ID.String())
	require.NoError(t, err)
	_, err = f.svc.Download(ownerCtx, anon.ID.String())
	require.NoError(t, err)
}

func TestDownloadWithoutGateIsOpen(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	anon, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "y", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)
	archive, err := f.svc.Download(ctx, anon.ID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, archive.Data)
}

func TestDeleteAndList(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	owner, stranger := uuid.New(), uuid.New()
	ownerCtx := asUser(context.Background(), owner)

	var ids []uuid.UUID
	for _, d := range []string{"uno", "dos"} {
		rec, err := f.svc.Generate(ownerCtx, GenerateInput{BusinessDescription: d, TemplateCategory: site.CategoryShop})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	mine, err := f.svc.ListMine(ownerCtx)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, ids[0], mine[0].ID)
	assert.Equal(t, ids[1], mine[1].ID)

	_, err = f.svc.ListMine(context.Background())
	requireCode(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)

	err = f.svc.Delete(context.Background(), ids[0].String())
	requireCode(t, err, http.StatusUnauthorized, apierr.CodeUnauthorized)
	err = f.svc.Delete(asUser(context.Background(), stranger), ids[0].String())
	requireCode(t, err, http.StatusForbidden, apierr.CodeForbidden)

	require.NoError(t, f.svc.Delete(ownerCtx, ids[0].String()))
	_, err = f.svc.Get(ownerCtx, ids[0].String())
	requireCode(t, err, http.StatusNotFound, apierr.CodeNotFound)
	err = f.svc.Delete(ownerCtx, ids[0].String())
	requireCode(t, err, http.StatusNotFound, apierr.CodeNotFound)

	mine, err = f.svc.ListMine(ownerCtx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ids[1], mine[0].ID)
}

func TestDeleteAnonymousRecordIsForbidden(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})

	rec, err := f.svc.Generate(context.Background(), GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	err = f.svc.Delete(asUser(context.Background(), uuid.New()), rec.ID.String())
	requireCode(t, err, http.StatusForbidden, apierr.CodeForbidden)
}

func TestPreviewAndPalette(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, GenerateInput{BusinessDescription: "x", TemplateCategory: site.CategoryShop})
	require.NoError(t, err)

	page, err := f.svc.Preview(ctx, rec.ID.String())
	require.NoError(t, err)
	assert.Contains(t, page, "<style>")
	assert.Contains(t, page, testJS)
	assert.NotContains(t, page, `href="styles.css"`)

	png, err := f.svc.Palette(ctx, rec.ID.String())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	pending, err := f.requests.Create(ctx, nil, "y", site.CategoryShop, nil)
	require.NoError(t, err)
	_, err = f.svc.Preview(ctx, pending.ID.String())
	requireCode(t, err, http.StatusConflict, apierr.CodeNotReady)
}

func TestTemplates(t *testing.T) {
	f := newWebsiteFixture(t, WebsiteConfig{})
	ids := make([]string, 0, 4)
	for _, tpl := range f.svc.Templates() {
		ids = append(ids, tpl.ID)
	}
	assert.Equal(t, []string{"restaurant", "consultancy", "shop", "services"}, ids)
}
