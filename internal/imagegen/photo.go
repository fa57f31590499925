package imagegen

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

// MaxPhotoBytes caps uploads; inline request payloads are limited upstream.
const MaxPhotoBytes = 20 << 20

// ErrNotImage rejects uploads whose content is not an image.
var ErrNotImage = errors.New("file is not an image")

// PhotoExtensions are offered by the upload picker.
var PhotoExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// LoadPhoto reads a local image into an inline reference.
func LoadPhoto(path string) (engine.ImageRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return engine.ImageRef{}, errors.Wrap(err, "stat photo")
	}
	if info.IsDir() {
		return engine.ImageRef{}, errors.Errorf("%s is a directory", filepath.Base(path))
	}
	if info.Size() > MaxPhotoBytes {
		return engine.ImageRef{}, errors.Errorf("photo is %d bytes, limit is %d", info.Size(), MaxPhotoBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.ImageRef{}, errors.Wrap(err, "read photo")
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return engine.ImageRef{}, errors.Wrapf(ErrNotImage, "%s (%s)", filepath.Base(path), mime)
	}
	return engine.ImageRef{MIMEType: mime, Data: data}, nil
}
