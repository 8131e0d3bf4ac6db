package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWebsitePrompt(t *testing.T) {
	p, err := GenerateWebsite("Fontanero en Madrid, urgencias 24h", "services")
	require.NoError(t, err)

	assert.Equal(t, PromptGenerateWebsite, p.Name)
	assert.Contains(t, p.System, "Template type: services")
	for _, v := range []string{"--primary-color", "--secondary-color", "--accent-color"} {
		assert.Contains(t, p.System, v)
	}
	assert.Contains(t, p.User, "Business description: Fontanero en Madrid, urgencias 24h")
}

func TestGenerateWebsitePromptRequiresDescription(t *testing.T) {
	_, err := GenerateWebsite("   ", "services")
	require.Error(t, err)
}

func TestEditTextsPrompt(t *testing.T) {
	p, err := EditTexts("<h1>Old</h1>", map[string]string{"title": "Nuevo título"})
	require.NoError(t, err)

	assert.Contains(t, p.User, "<h1>Old</h1>")
	assert.Contains(t, p.User, `"title": "Nuevo título"`)
	assert.Contains(t, p.System, `"html"`)
}

func TestBuildUnknownPrompt(t *testing.T) {
	_, err := Build("nope", Input{})
	require.Error(t, err)
}
