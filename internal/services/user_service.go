package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "civicbudget/internal/errors"
	"civicbudget/internal/models"
)

// userService reads the identity collaborator's participants.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpsertUser creates the user or updates the official level of an existing
// one. Used when importing participants.
func (s *userService) UpsertUser(username string, officialLevel int) (*models.User, error) {
	username = strings.TrimSpace(strings.ToLower(username))
	if username == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "username is required")
	}
	if officialLevel < 0 || officialLevel > 5 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "official level must be between 0 and 5")
	}

	user := &models.User{Username: username, OfficialLevel: officialLevel}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"official_level", "updated_at"}),
	}).Create(user).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// The conflict path does not report the existing primary key on every driver.
	var stored models.User
	if err := s.db.Where("username = ?", username).First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}
