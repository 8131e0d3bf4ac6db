package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/sitebuilder-backend/internal/modules/website/prompts"
	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
	"github.com/yungbote/sitebuilder-backend/internal/platform/openai"
)

var ErrEmptyHTML = errors.New("generated website has no HTML content")

type Generated struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	JS   string `json:"js"`
}

// Generator produces and edits single-page websites.
type Generator interface {
	Generate(ctx context.Context, description, category string) (Generated, error)
	EditTexts(ctx context.Context, html string, replacements map[string]string) (string, error)
}

type service struct {
	log *logger.Logger
	ai  openai.Client
}

func New(log *logger.Logger, ai openai.Client) Generator {
	return &service{log: log.With("service", "WebsiteGenerator"), ai: ai}
}

func (s *service) Generate(ctx context.Context, description, category string) (Generated, error) {
	p, err := prompts.GenerateWebsite(description, category)
	if err != nil {
		return Generated{}, err
	}

	start := time.Now()
	var out Generated
	if err := s.ai.GenerateJSON(ctx, p.System, p.User, &out); err != nil {
		return Generated{}, fmt.Errorf("failed to generate website: %w", err)
	}
	if strings.TrimSpace(out.HTML) == "" {
		return Generated{}, ErrEmptyHTML
	}
	s.log.Info("Website generated",
		"category", category,
		"model", s.ai.Model(),
		"html_bytes", len(out.HTML),
		"css_bytes", len(out.CSS),
		"js_bytes", len(out.JS),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (s *service) EditTexts(ctx context.Context, html string, replacements map[string]string) (string, error) {
	p, err := prompts.EditTexts(html, replacements)
	if err != nil {
		return "", err
	}
	var out struct {
		HTML string `json:"html"`
	}
	if err := s.ai.GenerateJSON(ctx, p.System, p.User, &out); err != nil {
		return "", fmt.Errorf("failed to edit texts: %w", err)
	}
	if strings.TrimSpace(out.HTML) == "" {
		return "", ErrEmptyHTML
	}
	return out.HTML, nil
}
