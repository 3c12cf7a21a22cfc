package controllers

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/models"
)

// UserInfo is the public projection of a user record.
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// UserController serves user lookups. The per-user history listings live on
// the controllers owning their cache namespaces.
type UserController struct {
	db     *models.Database
	logger zerolog.Logger
}

// NewUserController creates a new user controller.
func NewUserController(db *models.Database, logger zerolog.Logger) *UserController {
	return &UserController{db: db, logger: logger}
}

// GetByID returns the user's public info.
func (c *UserController) GetByID(id uint) (*UserInfo, error) {
	user, err := c.db.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, errs.Internal(err)
	}
	return userInfo(user), nil
}

// GetByNickname returns the public info of the user behind a nickname.
func (c *UserController) GetByNickname(nickname string) (*UserInfo, error) {
	user, err := c.db.GetUserByNickname(nickname)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, errs.Internal(err)
	}
	return userInfo(user), nil
}

func userInfo(user *models.User) *UserInfo {
	return &UserInfo{
		ID:       user.ID,
		Email:    user.Email,
		Nickname: user.Nickname,
		Role:     user.Role,
	}
}
