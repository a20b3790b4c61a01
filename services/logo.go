package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/pocketbase/pocketbase/core"
)

const maxLogoBytes = 2 << 20

// ErrUnsupportedLogo is returned for logo bytes that are not PNG or JPEG.
var ErrUnsupportedLogo = errors.New("logo must be a PNG or JPEG image")

// Logo is a decoded company logo ready for the renderer.
type Logo struct {
	Bytes []byte
	Ext   extension.Type
}

// DecodeLogo sniffs b and accepts PNG and JPEG images.
func DecodeLogo(b []byte) (*Logo, error) {
	mt := mimetype.Detect(b)
	switch {
	case mt.Is("image/png"):
		return &Logo{Bytes: b, Ext: extension.Png}, nil
	case mt.Is("image/jpeg"):
		return &Logo{Bytes: b, Ext: extension.Jpg}, nil
	}
	return nil, fmt.Errorf("%w: got %s", ErrUnsupportedLogo, mt.String())
}

// LogoLoader reads the uploaded logo referenced by a user's settings from the
// app's file storage. Logos are never fetched from other hosts.
type LogoLoader struct {
	App core.App
}

// Load returns nil without error when no logo is uploaded.
func (l *LogoLoader) Load(ctx context.Context, s Settings) (*Logo, error) {
	if s.logoKey == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load logo: %w", err)
	}

	fsys, err := l.App.NewFilesystem()
	if err != nil {
		return nil, fmt.Errorf("open filesystem: %w", err)
	}
	defer fsys.Close()

	r, err := fsys.GetReader(s.logoKey)
	if err != nil {
		return nil, fmt.Errorf("open logo %s: %w", s.logoKey, err)
	}
	defer r.Close()

	b, err := io.ReadAll(io.LimitReader(r, maxLogoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if len(b) > maxLogoBytes {
		return nil, fmt.Errorf("logo exceeds %d bytes", maxLogoBytes)
	}
	return DecodeLogo(b)
}
