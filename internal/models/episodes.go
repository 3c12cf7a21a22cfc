package models

import "gorm.io/gorm"

// CreateEpisode inserts a new episode.
func (d *Database) CreateEpisode(episode *Episode) error {
	return d.db.Create(episode).Error
}

// SaveEpisode persists changes to an existing episode.
func (d *Database) SaveEpisode(episode *Episode) error {
	return d.db.Save(episode).Error
}

// GetEpisodeByID retrieves an episode by id.
func (d *Database) GetEpisodeByID(id uint) (*Episode, error) {
	var episode Episode
	if err := d.db.First(&episode, id).Error; err != nil {
		return nil, err
	}
	return &episode, nil
}

// EpisodeExists reports whether an episode with the given id exists.
func (d *Database) EpisodeExists(id uint) (bool, error) {
	var count int64
	err := d.db.Model(&Episode{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// EpisodeExistsByName reports whether the title already has an episode with
// the given name.
func (d *Database) EpisodeExistsByName(titleID uint, name string) (bool, error) {
	var count int64
	err := d.db.Model(&Episode{}).
		Where("title_id = ? AND name = ?", titleID, name).
		Count(&count).Error
	return count > 0, err
}

// DeleteEpisode removes an episode; its ratings and comments cascade.
func (d *Database) DeleteEpisode(id uint) error {
	res := d.db.Delete(&Episode{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListEpisodesByTitle returns one page of the title's episodes in insertion
// order.
func (d *Database) ListEpisodesByTitle(titleID uint, page, size int) (*Page[Episode], error) {
	var total int64
	if err := d.db.Model(&Episode{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, err
	}

	var episodes []Episode
	err := d.db.Where("title_id = ?", titleID).
		Order("id ASC").
		Offset(offset(page, size)).
		Limit(size).
		Find(&episodes).Error
	if err != nil {
		return nil, err
	}
	return newPage(episodes, page, size, total), nil
}

// ListEpisodesRatedByUser returns one page of episodes the user has rated,
// most recently rated first.
func (d *Database) ListEpisodesRatedByUser(userID uint, page, size int) (*Page[Episode], error) {
	base := d.db.Model(&Episode{}).
		Joins("JOIN ratings ON ratings.episode_id = episodes.id").
		Where("ratings.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var episodes []Episode
	err := d.db.Model(&Episode{}).
		Joins("JOIN ratings ON ratings.episode_id = episodes.id").
		Where("ratings.user_id = ?", userID).
		Order("ratings.updated_at DESC").
		Offset(offset(page, size)).
		Limit(size).
		Find(&episodes).Error
	if err != nil {
		return nil, err
	}
	return newPage(episodes, page, size, total), nil
}
