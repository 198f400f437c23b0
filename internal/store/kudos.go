package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/givemapp/givem/internal/model"
)

type KudosStore struct {
	db *sql.DB
}

func NewKudosStore(db *sql.DB) *KudosStore {
	return &KudosStore{db: db}
}

const kudosCols = `id, recipient_id, author_id, content, background_color, emojis_type, is_read, created_at, updated_at`

func scanKudos(scanner interface{ Scan(...any) error }) (*model.Kudos, error) {
	var k model.Kudos
	var isRead int
	err := scanner.Scan(
		&k.ID, &k.RecipientID, &k.AuthorID, &k.Content,
		&k.BackgroundColor, &k.EmojisType, &isRead, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	k.IsRead = isRead != 0
	return &k, nil
}

// Create inserts a kudos. Content is trimmed; color and emoji are assumed
// already parsed onto the closed sets.
func (s *KudosStore) Create(authorID, recipientID, content string, color model.BgColor, emoji model.EmojiType) (*model.Kudos, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO kudos (id, recipient_id, author_id, content, background_color, emojis_type)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, recipientID, authorID, strings.TrimSpace(content), string(color), string(emoji),
	)
	if err != nil {
		return nil, fmt.Errorf("insert kudos: %w", err)
	}
	return s.GetByID(id)
}

func (s *KudosStore) GetByID(id string) (*model.Kudos, error) {
	row := s.db.QueryRow(`SELECT `+kudosCols+` FROM kudos WHERE id = ?`, id)
	k, err := scanKudos(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kudos: %w", err)
	}
	return k, nil
}

// Latest returns the global feed, newest first, joined with the author.
// rowid breaks ties between same-second inserts.
func (s *KudosStore) Latest(limit int) ([]model.FeedItem, error) {
	rows, err := s.db.Query(
		`SELECT k.id, k.content, k.background_color, k.emojis_type, k.created_at,
		        k.author_id, k.recipient_id,
		        COALESCE(u.name, ''), COALESCE(u.email, '')
		 FROM kudos k
		 LEFT JOIN users u ON u.id = k.author_id
		 ORDER BY k.created_at DESC, k.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list latest kudos: %w", err)
	}
	defer rows.Close()

	var items []model.FeedItem
	for rows.Next() {
		var it model.FeedItem
		err := rows.Scan(
			&it.ID, &it.Content, &it.BackgroundColor, &it.EmojisType, &it.CreatedAt,
			&it.AuthorID, &it.RecipientID, &it.AuthorName, &it.AuthorEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan feed item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// NotificationsFor returns kudos addressed to userID, newest first.
func (s *KudosStore) NotificationsFor(userID string, limit int) ([]model.Notification, error) {
	rows, err := s.db.Query(
		`SELECT k.id, k.content, k.author_id, COALESCE(u.name, ''), k.is_read, k.created_at
		 FROM kudos k
		 LEFT JOIN users u ON u.id = k.author_id
		 WHERE k.recipient_id = ?
		 ORDER BY k.created_at DESC, k.rowid DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifs []model.Notification
	for rows.Next() {
		var n model.Notification
		var isRead int
		err := rows.Scan(&n.ID, &n.Content, &n.AuthorID, &n.AuthorName, &isRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.IsRead = isRead != 0
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

// MarkAllRead flips every unread kudos addressed to userID to read in one
// statement. Re-running is a no-op. Returns the number of rows flipped.
func (s *KudosStore) MarkAllRead(userID string) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE kudos SET is_read = 1 WHERE recipient_id = ? AND is_read = 0`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Delete removes the kudos only when actorID is its author. Ownership is
// part of the DELETE predicate, so "not found" and "not yours" are the
// same answer: false.
func (s *KudosStore) Delete(kudosID, actorID string) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM kudos WHERE id = ? AND author_id = ?`,
		kudosID, actorID,
	)
	if err != nil {
		return false, fmt.Errorf("delete kudos: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// KudosPatch carries the fields Update may change. Nil means leave as is.
type KudosPatch struct {
	Content         *string
	BackgroundColor *model.BgColor
	EmojisType      *model.EmojiType
}

// Update applies a partial update to an author-owned kudos, bumping
// updated_at. The author predicate rides in the WHERE clause like Delete.
// Returns the updated row, or nil when no row matched.
func (s *KudosStore) Update(kudosID, actorID string, patch KudosPatch) (*model.Kudos, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []any{}

	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, strings.TrimSpace(*patch.Content))
	}
	if patch.BackgroundColor != nil {
		sets = append(sets, "background_color = ?")
		args = append(args, string(*patch.BackgroundColor))
	}
	if patch.EmojisType != nil {
		sets = append(sets, "emojis_type = ?")
		args = append(args, string(*patch.EmojisType))
	}
	args = append(args, kudosID, actorID)

	result, err := s.db.Exec(
		`UPDATE kudos SET `+strings.Join(sets, ", ")+` WHERE id = ? AND author_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update kudos: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByID(kudosID)
}

// UnreadCount returns how many unread kudos are addressed to userID.
func (s *KudosStore) UnreadCount(userID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM kudos WHERE recipient_id = ? AND is_read = 0`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}
