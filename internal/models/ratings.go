package models

import "gorm.io/gorm"

// CreateRating inserts a new rating. A racing duplicate for the same
// (episode, user) pair loses to the composite unique index and returns
// gorm.ErrDuplicatedKey.
func (d *Database) CreateRating(rating *Rating) error {
	return d.db.Create(rating).Error
}

// SaveRating persists changes to an existing rating.
func (d *Database) SaveRating(rating *Rating) error {
	return d.db.Save(rating).Error
}

// GetRating retrieves the live rating for an (episode, user) pair.
func (d *Database) GetRating(episodeID, userID uint) (*Rating, error) {
	var rating Rating
	err := d.db.Where("episode_id = ? AND user_id = ?", episodeID, userID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// RatingExists reports whether the (episode, user) pair already has a live
// rating.
func (d *Database) RatingExists(episodeID, userID uint) (bool, error) {
	var count int64
	err := d.db.Model(&Rating{}).
		Where("episode_id = ? AND user_id = ?", episodeID, userID).
		Count(&count).Error
	return count > 0, err
}

// DeleteRating removes the rating for an (episode, user) pair.
func (d *Database) DeleteRating(episodeID, userID uint) error {
	res := d.db.Where("episode_id = ? AND user_id = ?", episodeID, userID).
		Delete(&Rating{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AverageRatingForEpisode returns the arithmetic mean of the episode's live
// ratings, or nil when the episode has no ratings.
func (d *Database) AverageRatingForEpisode(episodeID uint) (*float64, error) {
	var avg *float64
	err := d.db.Model(&Rating{}).
		Where("episode_id = ?", episodeID).
		Select("AVG(value)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}

// AverageRatingForTitle returns the mean across all ratings of all episodes
// under the title. Every individual rating counts once; this is not a
// mean of per-episode means. Returns nil when no ratings exist.
func (d *Database) AverageRatingForTitle(titleID uint) (*float64, error) {
	var avg *float64
	err := d.db.Model(&Rating{}).
		Joins("JOIN episodes ON episodes.id = ratings.episode_id").
		Where("episodes.title_id = ?", titleID).
		Select("AVG(ratings.value)").
		Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	return avg, nil
}
