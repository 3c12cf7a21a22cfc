package models

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateTitle inserts a new title.
func (d *Database) CreateTitle(title *Title) error {
	return d.db.Create(title).Error
}

// UpdateTitleDetails persists the caller-editable columns only. ViewCount
// and AvgRating are owned by their own write paths; a full-row save would
// rewrite them with values read before those writes landed.
func (d *Database) UpdateTitleDetails(title *Title) error {
	return d.db.Model(title).Updates(map[string]any{
		"name":          title.Name,
		"creator":       title.Creator,
		"day":           title.Day,
		"genre":         title.Genre,
		"thumbnail_ref": title.ThumbnailRef,
	}).Error
}

// GetTitleByID retrieves a title by id.
func (d *Database) GetTitleByID(id uint) (*Title, error) {
	var title Title
	if err := d.db.First(&title, id).Error; err != nil {
		return nil, err
	}
	return &title, nil
}

// TitleExistsByName reports whether a title with the given display name exists.
func (d *Database) TitleExistsByName(name string) (bool, error) {
	var count int64
	err := d.db.Model(&Title{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// TitleExists reports whether a title with the given id exists.
func (d *Database) TitleExists(id uint) (bool, error) {
	var count int64
	err := d.db.Model(&Title{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// DeleteTitle removes a title. Episodes and their ratings/comments, plus
// favorites and view events, go with it via storage-level cascade.
func (d *Database) DeleteTitle(id uint) error {
	res := d.db.Delete(&Title{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTitlesByDay returns one page of titles released on the given day,
// ordered by the sort mode's column, descending.
func (d *Database) ListTitlesByDay(day Day, sort SortMode, page, size int) (*Page[Title], error) {
	var total int64
	if err := d.db.Model(&Title{}).Where("day = ?", day).Count(&total).Error; err != nil {
		return nil, err
	}

	var titles []Title
	err := d.db.Where("day = ?", day).
		Order(fmt.Sprintf("%s DESC", sort.Column())).
		Offset(offset(page, size)).
		Limit(size).
		Find(&titles).Error
	if err != nil {
		return nil, err
	}
	return newPage(titles, page, size, total), nil
}

// ListAllTitles returns every title, for full index rebuilds.
func (d *Database) ListAllTitles() ([]Title, error) {
	var titles []Title
	err := d.db.Find(&titles).Error
	return titles, err
}

// IncrementTitleViews bumps the title's view counter by one with a single
// column expression, avoiding a read-modify-write on the counter itself.
func (d *Database) IncrementTitleViews(id uint) error {
	return d.db.Model(&Title{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// RefreshTitleAvgRating recomputes the title's denormalized average rating
// from all live ratings of its episodes. Zero ratings store as 0; the
// aggregator's fresh reads distinguish the empty case, the column exists
// only to back the highest-rated sort.
func (d *Database) RefreshTitleAvgRating(titleID uint) error {
	return d.db.Model(&Title{}).Where("id = ?", titleID).
		UpdateColumn("avg_rating", gorm.Expr(
			`COALESCE((SELECT AVG(ratings.value) FROM ratings
			 JOIN episodes ON episodes.id = ratings.episode_id
			 WHERE episodes.title_id = ?), 0)`, titleID)).Error
}
