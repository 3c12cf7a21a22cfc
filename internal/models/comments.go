package models

import "gorm.io/gorm"

// CreateComment inserts a new comment.
func (d *Database) CreateComment(comment *Comment) error {
	return d.db.Create(comment).Error
}

// SaveComment persists changes to an existing comment.
func (d *Database) SaveComment(comment *Comment) error {
	return d.db.Save(comment).Error
}

// GetCommentByID retrieves a comment by id.
func (d *Database) GetCommentByID(id uint) (*Comment, error) {
	var comment Comment
	if err := d.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentByIDAndUser retrieves a comment only if it belongs to the user.
func (d *Database) GetCommentByIDAndUser(id, userID uint) (*Comment, error) {
	var comment Comment
	err := d.db.Where("id = ? AND user_id = ?", id, userID).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteCommentByIDAndUser removes a comment only if it belongs to the user.
// A comment owned by someone else is indistinguishable from a missing one.
func (d *Database) DeleteCommentByIDAndUser(id, userID uint) error {
	res := d.db.Where("id = ? AND user_id = ?", id, userID).Delete(&Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteComment removes a comment regardless of ownership.
func (d *Database) DeleteComment(id uint) error {
	res := d.db.Delete(&Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCommentsByEpisode returns one page of the episode's comments, newest
// first.
func (d *Database) ListCommentsByEpisode(episodeID uint, page, size int) (*Page[Comment], error) {
	var total int64
	if err := d.db.Model(&Comment{}).Where("episode_id = ?", episodeID).Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []Comment
	err := d.db.Where("episode_id = ?", episodeID).
		Order("created_at DESC").
		Offset(offset(page, size)).
		Limit(size).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return newPage(comments, page, size, total), nil
}

// ListCommentsByUser returns one page of the user's comments, newest first.
func (d *Database) ListCommentsByUser(userID uint, page, size int) (*Page[Comment], error) {
	var total int64
	if err := d.db.Model(&Comment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []Comment
	err := d.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset(page, size)).
		Limit(size).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return newPage(comments, page, size, total), nil
}
