package steps

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

type assetTemplate struct {
	Objective   string `yaml:"objective"`
	Headline    string `yaml:"headline"`
	PrimaryText string `yaml:"primary_text"`
	CTA         string `yaml:"cta"`
}

type templatePack struct {
	Assets []assetTemplate `yaml:"assets"`
}

var (
	packOnce   sync.Once
	loadedPack templatePack
)

// templates returns the copy template pack. BLUEPRINT_TEMPLATES_PATH
// overrides the embedded defaults; a broken override falls back to them.
func templates() []assetTemplate {
	packOnce.Do(func() {
		raw := defaultTemplatesYAML
		if path := strings.TrimSpace(os.Getenv("BLUEPRINT_TEMPLATES_PATH")); path != "" {
			if data, err := os.ReadFile(path); err == nil {
				raw = data
			}
		}
		if err := yaml.Unmarshal(raw, &loadedPack); err != nil || len(loadedPack.Assets) == 0 {
			loadedPack = templatePack{}
			_ = yaml.Unmarshal(defaultTemplatesYAML, &loadedPack)
		}
	})
	return loadedPack.Assets
}

func (t assetTemplate) render(vars map[string]string) (headline, primaryText, cta string) {
	interp := func(s string) string {
		for key, val := range vars {
			s = strings.ReplaceAll(s, "{"+key+"}", val)
		}
		return s
	}
	cta = t.CTA
	if strings.TrimSpace(cta) == "" {
		cta = "Learn More"
	}
	return interp(t.Headline), interp(t.PrimaryText), cta
}
