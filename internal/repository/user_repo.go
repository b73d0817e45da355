package repository

import (
	"skillswap/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByIDs(ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// Search lists users other than excludeID, optionally filtered by a skill
// contained in skills_offered. Used by the browse/match page.
func (r *UserRepository) Search(excludeID uint, skill string, limit, offset int) ([]models.User, error) {
	var users []models.User
	q := r.db.Where("id <> ?", excludeID)
	if skill != "" {
		q = q.Where("JSON_SEARCH(LOWER(skills_offered), 'one', LOWER(?)) IS NOT NULL", skill)
	}
	err := q.Order("rating DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}
