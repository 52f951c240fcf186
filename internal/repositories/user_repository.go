package repositories

import (
	"errors"

	"github.com/Fingel/fastastro/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	UpdateFields(userID uint, fields map[string]interface{}) (*models.User, error)
	SetEmailVerified(userID uint) error
	SetPassword(userID uint, hashedPassword string) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. A unique-index violation maps to
// ErrUserAlreadyExists so a concurrent registration that raced past the
// service's pre-check fails the same way the pre-check does.
func (r *UserRepositoryImpl) Create(user *models.User) error {
	var existing models.User
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateFields applies a sparse update: only the given columns change.
func (r *UserRepositoryImpl) UpdateFields(userID uint, fields map[string]interface{}) (*models.User, error) {
	if len(fields) > 0 {
		result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return nil, ErrUserAlreadyExists
			}
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}

	var user models.User
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) SetEmailVerified(userID uint) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("email_verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetPassword(userID uint, hashedPassword string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("hashed_password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
