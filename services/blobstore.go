package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"salesdesk/collections"
)

// Uploader stores a file and returns a URL anyone with the link can open.
type Uploader interface {
	Upload(ctx context.Context, owner, filename string, data []byte) (string, error)
}

// BlobStore uploads shared PDFs into the public shared_documents collection.
type BlobStore struct {
	App       core.App
	PublicURL string
}

// Upload saves data as a new shared document and returns its file URL.
func (s *BlobStore) Upload(ctx context.Context, owner, filename string, data []byte) (string, error) {
	col, err := s.App.FindCollectionByNameOrId(collections.SharedDocuments)
	if err != nil {
		return "", fmt.Errorf("find shared documents collection: %w", err)
	}

	file, err := filesystem.NewFileFromBytes(data, filename)
	if err != nil {
		return "", fmt.Errorf("prepare upload: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("owner", owner)
	rec.Set("name", filename)
	rec.Set("file", file)
	if err := s.App.SaveWithContext(ctx, rec); err != nil {
		return "", fmt.Errorf("store %s: %w", filename, err)
	}

	return fmt.Sprintf("%s/api/files/%s/%s/%s", s.PublicURL, col.Name, rec.Id, rec.GetString("file")), nil
}
