package models

import "time"

// Title is a catalog entry grouping episodes. The record store row is
// authoritative; the search index holds a derived projection of it.
type Title struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"uniqueIndex;not null" json:"name"`
	Creator string `gorm:"not null" json:"creator"`
	Day     Day    `gorm:"index;not null" json:"day"`
	Genre   string `json:"genre"`

	// Denormalized engagement columns. ViewCount is bumped by the view-dedup
	// engine; AvgRating is refreshed after every rating write so the
	// highest-rated sort maps to a single storage column.
	ViewCount int64   `gorm:"not null;default:0" json:"viewCount"`
	AvgRating float64 `gorm:"not null;default:0" json:"avgRating"`

	ThumbnailRef string `json:"thumbnailRef"`

	Episodes   []Episode   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Favorites  []Favorite  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ViewEvents []ViewEvent `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Episode is one installment of a title. Its name is unique within the
// owning title.
type Episode struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TitleID uint   `gorm:"uniqueIndex:idx_episode_title_name;not null" json:"titleId"`
	Name    string `gorm:"uniqueIndex:idx_episode_title_name;not null" json:"name"`

	MediaRef     string `json:"mediaRef"`
	ThumbnailRef string `json:"thumbnailRef"`

	Ratings  []Rating  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
