// Package render converts message bodies to the HTML sent to Unisender.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/foxzi/unisender-sync/internal/models"
)

// Raw HTML inside markdown is escaped (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Markdown renders markdown source to HTML
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Body returns the HTML body of a message according to its format
func Body(m *models.EmailMessage) (string, error) {
	switch m.BodyFormat {
	case "", models.BodyHTML:
		return m.Body, nil
	case models.BodyMarkdown:
		return Markdown(m.Body)
	default:
		return "", fmt.Errorf("unknown body format: %s", m.BodyFormat)
	}
}
