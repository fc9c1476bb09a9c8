// README: Quote aggregate: one analyzed or generated proposal document.
package quote

import (
	"errors"
	"time"

	"tripdesk/internal/modules/pdfdoc"
)

// Source records which extraction tier produced the content.
type Source string

const (
	SourceTemplate Source = "template"
	SourceAI       Source = "ai"
	SourceRegex    Source = "regex"
	SourceRebuilt  Source = "rebuilt"
)

var ErrNotFound = errors.New("quote not found")

// Quote is one proposal document tied to a conversation: the structured
// content plus, once rendered, where the hosted PDF lives.
type Quote struct {
	ID             string
	ConversationID string
	Filename       string
	Source         Source
	Content        *pdfdoc.Content
	StoragePath    string
	PdfURL         string
	CreatedAt      time.Time
}
