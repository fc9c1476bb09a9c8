// README: Quote service: persistence plus hosted storage for rendered PDFs.
package quote

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	"tripdesk/internal/logger"
	"tripdesk/internal/modules/pdfdoc"
)

type Service struct {
	store   *Store
	storage *supabase.Client
	bucket  string
	log     logger.Logger
}

func NewService(store *Store, storage *supabase.Client, bucket string, log logger.Logger) *Service {
	return &Service{store: store, storage: storage, bucket: bucket, log: log}
}

// SaveAnalyzed persists the structured content of an analyzed document so a
// later price-change turn can fetch it back.
func (s *Service) SaveAnalyzed(ctx context.Context, conversationID, filename string, source Source, content *pdfdoc.Content) (*Quote, error) {
	q := &Quote{
		ID:             newID(),
		ConversationID: conversationID,
		Filename:       filename,
		Source:         source,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info("quote saved", "quote_id", q.ID, "conversation_id", conversationID, "source", string(source))
	return q, nil
}

// ArchiveUpload copies the original uploaded PDF into hosted storage so the
// source document survives past the chat attachment's lifetime.
func (s *Service) ArchiveUpload(ctx context.Context, quoteID string, pdf []byte) (string, error) {
	path := fmt.Sprintf("uploads/%s.pdf", quoteID)

	if _, err := s.storage.Storage.UploadFile(s.bucket, path, bytes.NewReader(pdf)); err != nil {
		return "", fmt.Errorf("upload source pdf: %w", err)
	}
	url := s.storage.Storage.GetPublicUrl(s.bucket, path).SignedURL

	if err := s.store.SetRendered(ctx, quoteID, path, url); err != nil {
		return "", err
	}
	s.log.Info("source pdf archived", "quote_id", quoteID, "path", path)
	return url, nil
}

// RecordRendered stores the hosted URL the rendering service returned for a
// regenerated proposal.
func (s *Service) RecordRendered(ctx context.Context, quoteID, url string) error {
	return s.store.SetRendered(ctx, quoteID, "", url)
}

func (s *Service) Latest(ctx context.Context, conversationID string) (*Quote, error) {
	return s.store.LatestByConversation(ctx, conversationID)
}

func newID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
