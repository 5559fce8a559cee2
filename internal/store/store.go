package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nikhilsomani/logsift/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// CreateAnalysis persists a classified result keyed by fingerprint.
	// A concurrent write for the same fingerprint is silently dropped;
	// the first stored result is the result of record.
	CreateAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysisByHash(ctx context.Context, contentHash string) (*models.Analysis, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
}
