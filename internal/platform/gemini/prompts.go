package gemini

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/phrazzld/posterdrop/internal/generation"
)

const defaultPosterTemplate = `Create a striking advertising poster for the product shown in the attached image.
Keep the product exactly as it appears, with the same shape, colors, materials and branding.
Place it in a clean, modern composition with dramatic studio lighting.
Render the slogan "{{.Slogan}}" prominently in bold, legible typography.
The poster must have a {{.AspectRatio}} aspect ratio.
Return only the finished poster image.`

const defaultVideoTemplate = `Animate the attached advertising poster displayed at this location: {{.Location}}.
The poster sits naturally in the scene with realistic lighting and reflections, while the surroundings move with ambient life.
Keep the poster artwork unchanged and clearly readable.
Use a slow, cinematic camera move.`

// posterPromptData is the data passed to the poster prompt template
type posterPromptData struct {
	Slogan      string
	AspectRatio string
}

// videoPromptData is the data passed to the video prompt template
type videoPromptData struct {
	Location    string
	AspectRatio string
}

// loadTemplate parses the template at path, or fallback when path is empty.
func loadTemplate(name, path, fallback string) (*template.Template, error) {
	content := fallback
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				generation.ErrInvalidConfig, path, err)
		}
		content = string(raw)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}
	return tmpl, nil
}

func renderPrompt(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
