package models

import "gorm.io/gorm"

// CreateFavorite inserts a new favorite. Duplicates for the same
// (user, title) pair lose to the composite unique index.
func (d *Database) CreateFavorite(favorite *Favorite) error {
	return d.db.Create(favorite).Error
}

// DeleteFavorite removes the favorite for a (user, title) pair.
func (d *Database) DeleteFavorite(userID, titleID uint) error {
	res := d.db.Where("user_id = ? AND title_id = ?", userID, titleID).
		Delete(&Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFavoriteTitlesByUser returns one page of the titles the user follows,
// most recently favorited first.
func (d *Database) ListFavoriteTitlesByUser(userID uint, page, size int) (*Page[Title], error) {
	base := d.db.Model(&Title{}).
		Joins("JOIN favorites ON favorites.title_id = titles.id").
		Where("favorites.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var titles []Title
	err := d.db.Model(&Title{}).
		Joins("JOIN favorites ON favorites.title_id = titles.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Offset(offset(page, size)).
		Limit(size).
		Find(&titles).Error
	if err != nil {
		return nil, err
	}
	return newPage(titles, page, size, total), nil
}
