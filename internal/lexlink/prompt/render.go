package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Render executes the prompt template with the supplied variables. Variables
// listed as required in the prompt's input spec must be present and non-empty.
func (p *Prompt) Render(vars map[string]string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("prompt is nil")
	}

	for _, name := range p.Config.Input.RequiredVariables {
		if strings.TrimSpace(vars[name]) == "" {
			return "", fmt.Errorf("prompt %s: missing required variable %q", p.Config.Slug, name)
		}
	}

	tmpl, err := template.New(p.Config.Slug).Option("missingkey=zero").Parse(p.Config.Template)
	if err != nil {
		return "", fmt.Errorf("prompt %s: parse template: %w", p.Config.Slug, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("prompt %s: execute template: %w", p.Config.Slug, err)
	}
	return sb.String(), nil
}
