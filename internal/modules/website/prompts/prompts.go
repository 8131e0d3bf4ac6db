package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// Input carries every field any prompt might reference. Missing fields render empty
// strings (templates use missingkey=zero).
type Input struct {
	// Generation
	BusinessDescription string
	TemplateCategory    string
	// Text editing
	OriginalHTML     string
	ReplacementsJSON string
}

type Prompt struct {
	Name   string
	System string
	User   string
}

const (
	PromptGenerateWebsite = "generate_website"
	PromptEditTexts       = "edit_texts"
)

type promptDef struct {
	system *template.Template
	user   *template.Template
	check  func(Input) error
}

var registry = map[string]promptDef{
	PromptGenerateWebsite: {
		system: mustParse(PromptGenerateWebsite+".system", generateSystem),
		user:   mustParse(PromptGenerateWebsite+".user", generateUser),
		check: func(in Input) error {
			if strings.TrimSpace(in.BusinessDescription) == "" {
				return fmt.Errorf("%s: BusinessDescription required", PromptGenerateWebsite)
			}
			if strings.TrimSpace(in.TemplateCategory) == "" {
				return fmt.Errorf("%s: TemplateCategory required", PromptGenerateWebsite)
			}
			return nil
		},
	},
	PromptEditTexts: {
		system: mustParse(PromptEditTexts+".system", editTextsSystem),
		user:   mustParse(PromptEditTexts+".user", editTextsUser),
		check: func(in Input) error {
			if strings.TrimSpace(in.OriginalHTML) == "" {
				return fmt.Errorf("%s: OriginalHTML required", PromptEditTexts)
			}
			return nil
		},
	},
}

// Build renders the named prompt.
func Build(name string, in Input) (Prompt, error) {
	s, ok := registry[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt %q", name)
	}
	if err := s.check(in); err != nil {
		return Prompt{}, err
	}
	system, err := render(s.system, in)
	if err != nil {
		return Prompt{}, err
	}
	user, err := render(s.user, in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{Name: name, System: system, User: user}, nil
}

func GenerateWebsite(description, category string) (Prompt, error) {
	return Build(PromptGenerateWebsite, Input{
		BusinessDescription: description,
		TemplateCategory:    category,
	})
}

func EditTexts(html string, replacements map[string]string) (Prompt, error) {
	b, err := json.MarshalIndent(replacements, "", "  ")
	if err != nil {
		return Prompt{}, fmt.Errorf("marshal replacements: %w", err)
	}
	return Build(PromptEditTexts, Input{
		OriginalHTML:     html,
		ReplacementsJSON: string(b),
	})
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=zero").Parse(strings.TrimSpace(text)))
}

func render(t *template.Template, in Input) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
