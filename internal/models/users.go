package models

// CreateUser inserts a new user record.
func (d *Database) CreateUser(user *User) error {
	return d.db.Create(user).Error
}

// GetUserByID retrieves a user by id.
func (d *Database) GetUserByID(id uint) (*User, error) {
	var user User
	if err := d.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByNickname retrieves a user by nickname.
func (d *Database) GetUserByNickname(nickname string) (*User, error) {
	var user User
	if err := d.db.Where("nickname = ?", nickname).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByToken resolves an API token to its user.
func (d *Database) GetUserByToken(token string) (*User, error) {
	var user User
	if err := d.db.Where("api_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether a user with the given id exists.
func (d *Database) UserExists(id uint) (bool, error) {
	var count int64
	err := d.db.Model(&User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
