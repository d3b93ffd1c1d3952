package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/security"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db     *gorm.DB
	hasher security.PasswordHasher
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB, hasher security.PasswordHasher) UserRepository {
	return &GormUserRepository{db: db, hasher: hasher}
}

// Create hashes the password and inserts the user.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", ErrDuplicateEmail, err)
		}
		return err
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindPublicByID finds a user by ID, leaving credential fields empty
func (r *GormUserRepository) FindPublicByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Scopes(publicUser).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) VerifyPassword(user *models.User, password string) bool {
	return r.hasher.Verify(password, user.PasswordHash)
}

// UpdatePassword stores a new hash unless password already matches the stored one.
func (r *GormUserRepository) UpdatePassword(ctx context.Context, id, password string) (bool, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if r.hasher.Verify(password, user.PasswordHash) {
		return false, nil
	}

	hash, err := r.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *GormUserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", token).Error
}

// RotateRefreshToken is a compare-and-swap: it reports false when the stored
// token no longer equals current, e.g. after a concurrent rotation or logout.
func (r *GormUserRepository) RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, current).
		Update("refresh_token", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormUserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token", gorm.Expr("NULL")).Error
}
