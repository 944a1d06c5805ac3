package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Filer writes numbered PNG frames: prefix000000.png, prefix000001.png, ...
type Filer struct {
	prefix string
	digits int
	index  int
}

func NewFiler(prefix string, digits int) *Filer {
	return &Filer{
		prefix: prefix,
		digits: digits,
		index:  0,
	}
}

// Save writes img as the next frame and returns its file name.
func (f *Filer) Save(img image.Image) (string, error) {
	filename := fmt.Sprintf("%s%0*d.png", f.prefix, f.digits, f.index)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close frame file: %w", err)
	}
	f.index++
	return filename, nil
}
