package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFrontmatterAndBody(t *testing.T) {
	data := []byte(`---
slug: sample
name: Sample
input:
  required_variables:
    - question
---
Question: {{.question}}
`)

	p, err := Load("sample.md", data)
	require.NoError(t, err)
	require.Equal(t, "sample", p.Config.Slug)
	require.Equal(t, []string{"question"}, p.Config.Input.RequiredVariables)
	require.Equal(t, "Question: {{.question}}", p.Config.Template)
}

func TestLoadMissingSlug(t *testing.T) {
	_, err := Load("bad.md", []byte("---\nname: No Slug\n---\nbody"))
	require.Error(t, err)
}

func TestLoadMissingTemplate(t *testing.T) {
	_, err := Load("bad.md", []byte("---\nslug: empty\n---\n"))
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	prompts, err := LoadDefaults()
	require.NoError(t, err)
	require.Len(t, prompts, 3)
}

func TestDefaultRegistryHasPipelineSlugs(t *testing.T) {
	reg, err := DefaultRegistry()
	require.NoError(t, err)

	for _, slug := range []string{SlugLegalAnalysis, SlugLegalAnalysisImage, SlugVisionTranscribe} {
		p, err := reg.Get(slug)
		require.NoError(t, err, slug)
		require.NotEmpty(t, p.Config.Template)
	}
}

func TestRegistryFromDirOverride(t *testing.T) {
	dir := t.TempDir()
	custom := []byte(`---
slug: legal-analysis
---
Custom: {{.question}}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "legal-analysis.md"), custom, 0o600))

	reg, err := RegistryFromDir(dir)
	require.NoError(t, err)

	p, err := reg.Get(SlugLegalAnalysis)
	require.NoError(t, err)
	require.Equal(t, "Custom: {{.question}}", p.Config.Template)

	_, err = reg.Get(SlugVisionTranscribe)
	require.Error(t, err)
}

func TestRenderRequiredVariable(t *testing.T) {
	p := &Prompt{Config: Config{
		Slug:     "r",
		Template: "Q: {{.question}}",
		Input:    InputSpec{RequiredVariables: []string{"question"}},
	}}

	out, err := p.Render(map[string]string{"question": "what is consideration?"})
	require.NoError(t, err)
	require.Equal(t, "Q: what is consideration?", out)

	_, err = p.Render(map[string]string{})
	require.Error(t, err)
}

func TestRenderOptionalVariableEmpty(t *testing.T) {
	p := &Prompt{Config: Config{Slug: "o", Template: "Q: {{.question}}!"}}
	out, err := p.Render(map[string]string{})
	require.NoError(t, err)
	require.Equal(t, "Q: !", out)
}
