package model

import "time"

// BgColor is the card background tag. Unknown values parse to the default.
type BgColor string

const (
	BgRed    BgColor = "RED"
	BgBlue   BgColor = "BLUE"
	BgYellow BgColor = "YELLOW"
	BgGreen  BgColor = "GREEN"
)

// EmojiType is the emoji tag. The APPREACIATED spelling is load-bearing:
// it is what clients send and what existing rows contain.
type EmojiType string

const (
	EmojiThumbsUp     EmojiType = "THUMBS_UP"
	EmojiSmiling      EmojiType = "SMILING"
	EmojiAppreaciated EmojiType = "APPREACIATED"
)

var validBgColors = map[BgColor]bool{
	BgRed:    true,
	BgBlue:   true,
	BgYellow: true,
	BgGreen:  true,
}

var validEmojiTypes = map[EmojiType]bool{
	EmojiThumbsUp:     true,
	EmojiSmiling:      true,
	EmojiAppreaciated: true,
}

// ParseBgColor maps arbitrary form input onto the closed set,
// falling back to RED for anything unrecognized.
func ParseBgColor(s string) BgColor {
	if c := BgColor(s); validBgColors[c] {
		return c
	}
	return BgRed
}

// ParseEmojiType falls back to THUMBS_UP for anything unrecognized.
func ParseEmojiType(s string) EmojiType {
	if e := EmojiType(s); validEmojiTypes[e] {
		return e
	}
	return EmojiThumbsUp
}

type Kudos struct {
	ID              string    `json:"id"`
	RecipientID     string    `json:"recipient_id"`
	AuthorID        string    `json:"author_id"`
	Content         string    `json:"content"`
	BackgroundColor BgColor   `json:"background_color"`
	EmojisType      EmojiType `json:"emojis_type"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FeedItem is a kudos joined with its author for the global feed.
// AuthorName and AuthorEmail are empty if the author row is gone.
type FeedItem struct {
	ID              string    `json:"id"`
	Content         string    `json:"content"`
	BackgroundColor BgColor   `json:"background_color"`
	EmojisType      EmojiType `json:"emojis_type"`
	CreatedAt       time.Time `json:"created_at"`
	AuthorID        string    `json:"author_id"`
	RecipientID     string    `json:"recipient_id"`
	AuthorName      string    `json:"author_name"`
	AuthorEmail     string    `json:"author_email"`
}

// Notification is a kudos addressed to the current user.
type Notification struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
