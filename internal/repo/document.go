// Package repo contains all database access logic for the travel graph service.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-graph/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Document is a serialized document held in the local document store.
// Body is stored verbatim; it is not required to be valid JSON.
type Document struct {
	Key       string
	Body      []byte
	UpdatedAt time.Time
}

// DocumentRepo defines the persistence operations for stored documents.
// The graph service only reads; Put exists for the upload endpoint.
type DocumentRepo interface {
	// Get returns the body stored under key.
	// Returns domain.ErrNotFound if no document has that key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Stat returns the document stored under key, including its metadata.
	// Returns domain.ErrNotFound if no document has that key.
	Stat(ctx context.Context, key string) (Document, error)

	// Put stores body under key, replacing any previous document.
	Put(ctx context.Context, key string, body []byte) error

	// Delete removes the document stored under key.
	// Returns domain.ErrNotFound if no document has that key.
	Delete(ctx context.Context, key string) error
}

// pgDocumentRepo is the Postgres implementation of DocumentRepo.
type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

// Get returns the body of the document stored under key.
func (r *pgDocumentRepo) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := r.Stat(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.Get: %w", err)
	}
	return doc.Body, nil
}

// Stat returns the full document row stored under key.
func (r *pgDocumentRepo) Stat(ctx context.Context, key string) (Document, error) {
	const q = `
		SELECT key, body, updated_at
		FROM documents
		WHERE key = @key`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key})
	doc, err := scanDocument(row)
	if err != nil {
		return Document{}, fmt.Errorf("repo.DocumentRepo.Stat: %w", err)
	}
	return doc, nil
}

// Put upserts the document under key and bumps updated_at.
func (r *pgDocumentRepo) Put(ctx context.Context, key string, body []byte) error {
	const q = `
		INSERT INTO documents (key, body)
		VALUES (@key, @body)
		ON CONFLICT (key) DO UPDATE
		SET body       = EXCLUDED.body,
		    updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "body": string(body)}); err != nil {
		return fmt.Errorf("repo.DocumentRepo.Put: %w", err)
	}
	return nil
}

// Delete removes the document stored under key.
func (r *pgDocumentRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM documents WHERE key = @key`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key})
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument maps a single database row into a Document.
func scanDocument(s scanner) (Document, error) {
	var (
		d         Document
		body      pgtype.Text
		updatedAt pgtype.Timestamptz
	)

	if err := s.Scan(&d.Key, &body, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, domain.ErrNotFound
		}
		return Document{}, err
	}

	if body.Valid {
		d.Body = []byte(body.String)
	}
	d.UpdatedAt = updatedAt.Time
	return d, nil
}
