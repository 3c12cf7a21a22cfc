package models

// CreateViewEvent inserts the dedup record for a (title, fingerprint) pair.
// A racing duplicate loses to the unique index and returns
// gorm.ErrDuplicatedKey.
func (d *Database) CreateViewEvent(event *ViewEvent) error {
	return d.db.Create(event).Error
}

// ViewEventExists reports whether the (title, fingerprint) pair has already
// counted toward the title's view counter.
func (d *Database) ViewEventExists(titleID uint, fingerprint string) (bool, error) {
	var count int64
	err := d.db.Model(&ViewEvent{}).
		Where("title_id = ? AND fingerprint = ?", titleID, fingerprint).
		Count(&count).Error
	return count > 0, err
}
