// README: Quote store backed by PostgreSQL with jsonb content.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk/internal/modules/pdfdoc"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
	content, err := json.Marshal(q.Content)
	if err != nil {
		return fmt.Errorf("marshal quote content: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO quotes (
			id, conversation_id, filename, source, content,
			storage_path, pdf_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID,
		q.ConversationID,
		q.Filename,
		string(q.Source),
		content,
		q.StoragePath,
		q.PdfURL,
		q.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*Quote, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, conversation_id, filename, source, content,
		       storage_path, pdf_url, created_at
		FROM quotes
		WHERE id = $1`, id,
	)
	return scanQuote(row)
}

// LatestByConversation returns the most recent quote of a conversation, or
// ErrNotFound when none was ever stored. Price-change turns subject this
// document to the directive.
func (s *Store) LatestByConversation(ctx context.Context, conversationID string) (*Quote, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, conversation_id, filename, source, content,
		       storage_path, pdf_url, created_at
		FROM quotes
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, conversationID,
	)
	return scanQuote(row)
}

func (s *Store) SetRendered(ctx context.Context, id, storagePath, pdfURL string) error {
	// Empty arguments leave the stored value alone so archive and render
	// updates don't clobber each other.
	_, err := s.db.Exec(ctx, `
		UPDATE quotes
		SET storage_path = COALESCE(NULLIF($2, ''), storage_path),
		    pdf_url = COALESCE(NULLIF($3, ''), pdf_url)
		WHERE id = $1`,
		id, storagePath, pdfURL,
	)
	return err
}

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	var content []byte
	var source string
	err := row.Scan(
		&q.ID, &q.ConversationID, &q.Filename, &source, &content,
		&q.StoragePath, &q.PdfURL, &q.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	q.Source = Source(source)
	if len(content) > 0 {
		var c pdfdoc.Content
		if err := json.Unmarshal(content, &c); err != nil {
			return nil, fmt.Errorf("unmarshal quote content: %w", err)
		}
		q.Content = &c
	}
	return &q, nil
}
