package upload

import (
	"fmt"
	"net/http"
	"strings"

	"headshot/internal/domain"
)

// MaxUploadBytes is the fixed ceiling for a candidate source photo.
const MaxUploadBytes = 10 << 20

// Validator screens candidate files before they may enter the workflow. Both
// drag-and-drop and file-picker input route through the same checks; the
// picker's own filter is never trusted on its own.
type Validator struct {
	previews *PreviewStore
}

func NewValidator(previews *PreviewStore) *Validator {
	return &Validator{previews: previews}
}

// Validate enforces the size and type constraints and, on success, produces a
// SourceImage with a freshly allocated preview reference. Rejections never
// touch workflow state.
func (v *Validator) Validate(filename, declaredMIME string, data []byte) (*domain.SourceImage, error) {
	if int64(len(data)) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrFileTooLarge, len(data), int64(MaxUploadBytes))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrUnsupportedType)
	}

	mime := strings.ToLower(strings.TrimSpace(declaredMIME))
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: %q is not an image", domain.ErrUnsupportedType, declaredMIME)
	}
	// The declared type comes from the client; sniff the payload so a renamed
	// non-image cannot slip through either input path.
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		return nil, fmt.Errorf("%w: payload sniffed as %q", domain.ErrUnsupportedType, sniffed)
	}

	img := &domain.SourceImage{
		Filename: strings.TrimSpace(filename),
		MIME:     mime,
		Data:     data,
		Size:     int64(len(data)),
	}
	if img.Filename == "" {
		img.Filename = "upload"
	}
	if v.previews != nil {
		img.PreviewID = v.previews.Put(mime, data)
	}
	return img, nil
}
