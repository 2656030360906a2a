package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

const lastExportKey = "attendance:last_export"

// ExportArtifactRepository keeps the handle of the most recent day export so
// presentation code can offer the download later. Only the latest handle is
// retained, matching how the app stores a single report URI.
type ExportArtifactRepository struct {
	kv KV
}

// NewExportArtifactRepository constructs the repository.
func NewExportArtifactRepository(kv KV) *ExportArtifactRepository {
	return &ExportArtifactRepository{kv: kv}
}

// SaveLatest overwrites the stored handle.
func (r *ExportArtifactRepository) SaveLatest(ctx context.Context, artifact *models.ExportArtifact) error {
	raw, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("encode export artifact: %w", err)
	}
	return r.kv.Set(ctx, lastExportKey, raw)
}

// Latest returns the stored handle, or ErrKeyNotFound when no export ran yet.
func (r *ExportArtifactRepository) Latest(ctx context.Context) (*models.ExportArtifact, error) {
	raw, err := r.kv.Get(ctx, lastExportKey)
	if err != nil {
		return nil, err
	}
	var artifact models.ExportArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, fmt.Errorf("decode export artifact: %w", err)
	}
	return &artifact, nil
}
