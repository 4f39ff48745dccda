package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReactionKind names one of the two post reaction counters.
type ReactionKind string

const (
	ReactionHearts  ReactionKind = "hearts"
	ReactionFlowers ReactionKind = "flowers"
)

// Valid reports whether the kind is one of the two known counters.
func (k ReactionKind) Valid() bool {
	return k == ReactionHearts || k == ReactionFlowers
}

// Column returns the posts table column backing this counter, or "" for an
// unknown kind. The value is interpolated into SQL, so callers must reject
// an empty result before building a query.
func (k ReactionKind) Column() string {
	switch k {
	case ReactionHearts:
		return "hearts"
	case ReactionFlowers:
		return "flowers"
	default:
		return ""
	}
}

// Post is an emotionally-tagged confession. Counters only ever grow and
// replies are append-only; posts are never edited or deleted.
type Post struct {
	ID       string       `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string       `gorm:"not null" json:"title"`
	Content  string       `gorm:"type:text;not null" json:"content"`
	Tag      EmotionTagID `gorm:"not null;index" json:"tag"`
	AuthorID string       `gorm:"type:uuid;not null;index" json:"-"`
	Author   User         `gorm:"foreignKey:AuthorID" json:"author"`
	Hearts   int          `gorm:"not null;default:0" json:"hearts"`
	Flowers  int          `gorm:"not null;default:0" json:"flowers"`
	// Replies are kept in insertion order; see PostRepository preload.
	Replies   []Reply   `gorm:"foreignKey:PostID" json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// AfterFind keeps the reply list serializable as [] rather than null.
func (p *Post) AfterFind(_ *gorm.DB) error {
	if p.Replies == nil {
		p.Replies = []Reply{}
	}
	return nil
}

// Reply is an append-only comment on a post. Replies are never edited or
// removed independently of their post.
type Reply struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"-"`
	Content   string    `gorm:"not null" json:"content"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (r *Reply) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
