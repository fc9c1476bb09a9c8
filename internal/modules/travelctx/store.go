// README: Conversation context store backed by PostgreSQL.
package travelctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk/internal/types"
)

// Store reads and writes the per-conversation ContextState. Get returns
// (nil, nil) when no context exists yet; Save is last-writer-wins.
type Store interface {
	Get(ctx context.Context, conversationID string) (*types.ContextState, error)
	Save(ctx context.Context, state *types.ContextState) error
}

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, conversationID string) (*types.ContextState, error) {
	row := s.db.QueryRow(ctx, `
		SELECT last_search, constraints_history, turn_number, schema_version
		FROM travel_contexts
		WHERE conversation_id = $1`, conversationID,
	)

	var (
		lastSearch  []byte
		constraints []byte
		state       types.ContextState
	)
	err := row.Scan(&lastSearch, &constraints, &state.TurnNumber, &state.SchemaVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load context %s: %w", conversationID, err)
	}

	state.ConversationID = conversationID
	if len(lastSearch) > 0 {
		if err := json.Unmarshal(lastSearch, &state.LastSearch); err != nil {
			return nil, fmt.Errorf("decode last_search for %s: %w", conversationID, err)
		}
	}
	if len(constraints) > 0 {
		if err := json.Unmarshal(constraints, &state.ConstraintsHistory); err != nil {
			return nil, fmt.Errorf("decode constraints_history for %s: %w", conversationID, err)
		}
	}
	return &state, nil
}

func (s *PostgresStore) Save(ctx context.Context, state *types.ContextState) error {
	lastSearch, err := json.Marshal(state.LastSearch)
	if err != nil {
		return err
	}
	constraints, err := json.Marshal(state.ConstraintsHistory)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO travel_contexts (conversation_id, last_search, constraints_history, turn_number, schema_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (conversation_id) DO UPDATE SET
			last_search = EXCLUDED.last_search,
			constraints_history = EXCLUDED.constraints_history,
			turn_number = EXCLUDED.turn_number,
			schema_version = EXCLUDED.schema_version,
			updated_at = now()
	`, state.ConversationID, lastSearch, constraints, state.TurnNumber, state.SchemaVersion)
	return err
}
