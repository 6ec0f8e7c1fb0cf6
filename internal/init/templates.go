package initcmd

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/npratt/pullr/internal/config"
)

//go:embed templates/*
var templateFS embed.FS

var configTemplate = template.Must(template.ParseFS(templateFS, "templates/config.yaml.tmpl"))

// RenderConfig renders the starter config file with the values from cfg.
func RenderConfig(cfg *config.Config) (string, error) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, cfg); err != nil {
		return "", fmt.Errorf("render config template: %w", err)
	}
	return buf.String(), nil
}
