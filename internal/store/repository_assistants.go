package store

import "context"

// AddAssistant registers a delegated user for a chat. Re-adding the same
// pair is a no-op, not an error.
func (s *Store) AddAssistant(ctx context.Context, chatID, ownerID, assistantID int64) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO assistants (chat_id, owner_id, assistant_id)
		VALUES ($1,$2,$3)
		ON CONFLICT (chat_id, assistant_id) DO NOTHING
	`, chatID, ownerID, assistantID)
	return err
}

// RemoveAssistant deletes the pair; removing a missing pair is a no-op.
func (s *Store) RemoveAssistant(ctx context.Context, chatID, assistantID int64) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM assistants WHERE chat_id = $1 AND assistant_id = $2`, chatID, assistantID)
	return err
}

func (s *Store) IsAssistant(ctx context.Context, chatID, userID int64) (bool, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM assistants WHERE chat_id = $1 AND assistant_id = $2)`, chatID, userID)
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// ListAssistants returns the delegated users for a chat in insertion order.
func (s *Store) ListAssistants(ctx context.Context, chatID int64) ([]Assistant, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, chat_id, owner_id, assistant_id FROM assistants WHERE chat_id = $1 ORDER BY id ASC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assistant{}
	for rows.Next() {
		var a Assistant
		if err := rows.Scan(&a.ID, &a.ChatID, &a.OwnerID, &a.AssistantID); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
