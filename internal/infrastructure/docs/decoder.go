package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"TalentScout/internal/ports"
)

// DocconvDecoder maps stored resume documents to plain text. Rich formats go
// through docconv; unknown types are read as plain text. A failed decode
// yields a short diagnostic string as the "text" so it flows into attribute
// extraction as unparseable content instead of aborting the pipeline.
type DocconvDecoder struct {
	logger *slog.Logger
}

var _ ports.Decoder = (*DocconvDecoder)(nil)

// NewDecoder builds the polymorphic document decoder.
func NewDecoder(logger *slog.Logger) *DocconvDecoder {
	return &DocconvDecoder{logger: logger}
}

// Decode extracts text from the document at path. declaredType overrides the
// file extension when provided (e.g. "pdf", ".docx").
func (d *DocconvDecoder) Decode(_ context.Context, path, declaredType string) string {
	ext := normalizeType(declaredType)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(path))
	}

	switch ext {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			d.warn("document decode failed", "path", path, "type", ext, "error", err)
			return fmt.Sprintf("error extracting %s: %v", strings.TrimPrefix(ext, "."), err)
		}
		return res.Body
	default:
		content, err := os.ReadFile(path)
		if err != nil {
			d.warn("document read failed", "path", path, "error", err)
			return fmt.Sprintf("error reading document: %v", err)
		}
		return string(content)
	}
}

func normalizeType(declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "" {
		return ""
	}
	if !strings.HasPrefix(declared, ".") {
		declared = "." + declared
	}
	return declared
}

func (d *DocconvDecoder) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
