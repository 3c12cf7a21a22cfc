package models

import "time"

// Rating is a bounded score a user assigns to one episode. The composite
// unique index is the authoritative guard against duplicate (episode, user)
// pairs; any pre-check in the coordinators is a fast path only.
type Rating struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	EpisodeID uint `gorm:"uniqueIndex:idx_rating_episode_user;not null" json:"episodeId"`
	UserID    uint `gorm:"uniqueIndex:idx_rating_episode_user;not null" json:"userId"`
	Value     int  `gorm:"not null" json:"value"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a free-text remark on an episode.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	EpisodeID uint   `gorm:"index;not null" json:"episodeId"`
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Body      string `gorm:"not null" json:"body"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Favorite marks a title followed by a user, unique per (user, title).
type Favorite struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	UserID  uint `gorm:"uniqueIndex:idx_favorite_user_title;not null" json:"userId"`
	TitleID uint `gorm:"uniqueIndex:idx_favorite_user_title;not null" json:"titleId"`

	CreatedAt time.Time `json:"createdAt"`
}

// ViewEvent records that a client fingerprint has already counted toward a
// title's view counter. Rows are append-only and only ever consulted for
// existence; the unique index turns a racing duplicate insert into a
// constraint violation, which the dedup engine treats as "already counted".
type ViewEvent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TitleID     uint   `gorm:"uniqueIndex:idx_view_title_fingerprint;not null" json:"titleId"`
	Fingerprint string `gorm:"uniqueIndex:idx_view_title_fingerprint;not null" json:"fingerprint"`

	CreatedAt time.Time `json:"createdAt"`
}

// User is the minimal identity record engagement rows reference. Session
// issuance lives outside this system; the oracle resolves bearer tokens
// against this table.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Nickname string `gorm:"uniqueIndex;not null" json:"nickname"`
	Role     string `gorm:"not null;default:user" json:"role"`
	APIToken string `gorm:"uniqueIndex" json:"-"`

	Ratings   []Rating   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments  []Comment  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
