package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/sitebuilder-backend/internal/domain"
	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
	"github.com/yungbote/sitebuilder-backend/internal/http/response"
	"github.com/yungbote/sitebuilder-backend/internal/modules/website/packaging"
	"github.com/yungbote/sitebuilder-backend/internal/platform/apierr"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
	"github.com/yungbote/sitebuilder-backend/internal/services"
)

const (
	statusPending   = "pending"
	statusGenerated = "generated"
)

type WebsiteHandler struct {
	log     *logger.Logger
	website services.WebsiteService
}

func NewWebsiteHandler(log *logger.Logger, website services.WebsiteService) *WebsiteHandler {
	return &WebsiteHandler{
		log:     log.With("handler", "WebsiteHandler"),
		website: website,
	}
}

// WebsiteView is the wire shape of a generation request. Field names follow the web client.
type WebsiteView struct {
	ID                  string            `json:"id"`
	UserID              *string           `json:"userId"`
	BusinessDescription string            `json:"businessDescription"`
	TemplateType        string            `json:"templateType"`
	Status              string            `json:"status"`
	GeneratedHTML       *string           `json:"generatedHtml"`
	GeneratedCSS        *string           `json:"generatedCss"`
	GeneratedJS         *string           `json:"generatedJs"`
	CustomColors        map[string]string `json:"customColors"`
	CustomTexts         map[string]string `json:"customTexts"`
	CustomImages        map[string]string `json:"customImages"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

func toWebsiteView(r *types.GenerationRequest) WebsiteView {
	v := WebsiteView{
		ID:                  r.ID.String(),
		BusinessDescription: r.BusinessDescription,
		TemplateType:        r.TemplateCategory,
		Status:              statusPending,
		GeneratedHTML:       r.GeneratedHTML,
		GeneratedCSS:        r.GeneratedCSS,
		GeneratedJS:         r.GeneratedJS,
		CustomColors:        nonNil(site.StringMap(r.CustomColors)),
		CustomTexts:         nonNil(site.StringMap(r.CustomTexts)),
		CustomImages:        nonNil(site.StringMap(r.CustomImages)),
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.OwnerID != nil {
		owner := r.OwnerID.String()
		v.UserID = &owner
	}
	if r.IsGenerated() {
		v.Status = statusGenerated
	}
	return v
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// GET /api/templates
func (wh *WebsiteHandler) Templates(c *gin.Context) {
	response.RespondOK(c, gin.H{"templates": wh.website.Templates()})
}

// POST /api/generate
// body: { "businessDescription": "...", "templateType": "restaurant" }
func (wh *WebsiteHandler) Generate(c *gin.Context) {
	var req struct {
		BusinessDescription string `json:"businessDescription"`
		TemplateType        string `json:"templateType"`
		TemplateCategory    string `json:"templateCategory"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	category := req.TemplateType
	if strings.TrimSpace(category) == "" {
		category = req.TemplateCategory
	}
	rec, err := wh.website.Generate(c.Request.Context(), services.GenerateInput{
		BusinessDescription: req.BusinessDescription,
		TemplateCategory:    category,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toWebsiteView(rec))
}

// POST /api/customize
// body: { "id": "...", "customColors": {...}, "customTexts": {...}, "customImages": {...} }
func (wh *WebsiteHandler) Customize(c *gin.Context) {
	var req struct {
		ID           string            `json:"id"`
		CustomColors map[string]string `json:"customColors"`
		CustomTexts  map[string]string `json:"customTexts"`
		CustomImages map[string]string `json:"customImages"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	rec, err := wh.website.Customize(c.Request.Context(), services.CustomizeInput{
		ID:     req.ID,
		Colors: req.CustomColors,
		Texts:  req.CustomTexts,
		Images: req.CustomImages,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toWebsiteView(rec))
}

// GET /api/generation/:id
func (wh *WebsiteHandler) Get(c *gin.Context) {
	rec, err := wh.website.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, toWebsiteView(rec))
}

// GET /api/preview/:id
func (wh *WebsiteHandler) Preview(c *gin.Context) {
	page, err := wh.website.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Content-Security-Policy", "frame-ancestors 'self'")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// GET /api/generation/:id/palette.png
func (wh *WebsiteHandler) Palette(c *gin.Context) {
	png, err := wh.website.Palette(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// GET /api/download/:id
func (wh *WebsiteHandler) Download(c *gin.Context) {
	archive, err := wh.website.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", archive.FileName))
	c.Data(http.StatusOK, packaging.ContentType, archive.Data)
}

// GET /api/my-websites
func (wh *WebsiteHandler) ListMine(c *gin.Context) {
	rows, err := wh.website.ListMine(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]WebsiteView, 0, len(rows))
	for _, r := range rows {
		out = append(out, toWebsiteView(r))
	}
	response.RespondOK(c, gin.H{"websites": out})
}

// DELETE /api/generation/:id
func (wh *WebsiteHandler) Delete(c *gin.Context) {
	if err := wh.website.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
