// Package storage defines the persistence contract for variable documents.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

// HealthChecker defines basic health check capabilities.
type HealthChecker interface {
	// Ping tests the backing connection.
	Ping(ctx context.Context) error
}

// Closer defines cleanup capabilities.
type Closer interface {
	Close() error
}

// Storage defines the interface for document persistence.
type Storage interface {
	HealthChecker
	Closer

	// SaveDocument persists a document under its UUID.
	SaveDocument(ctx context.Context, id uuid.UUID, doc *vars.Document) error

	// LoadDocument retrieves a document by UUID.
	// Returns nil without error when the document doesn't exist.
	LoadDocument(ctx context.Context, id uuid.UUID) (*vars.Document, error)

	// DeleteDocument removes a document by UUID.
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	// ListDocuments returns the IDs of all stored documents.
	ListDocuments(ctx context.Context) ([]uuid.UUID, error)
}
