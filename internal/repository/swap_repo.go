package repository

import (
	"skillswap/internal/models"

	"gorm.io/gorm"
)

type SwapRepository struct {
	db *gorm.DB
}

func NewSwapRepository(db *gorm.DB) *SwapRepository {
	return &SwapRepository{db: db}
}

func (r *SwapRepository) Create(s *models.Swap) error {
	return r.db.Create(s).Error
}

func (r *SwapRepository) GetByID(id uint) (*models.Swap, error) {
	var s models.Swap
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListForUser returns swaps where the user is requester or responder.
func (r *SwapRepository) ListForUser(userID uint) ([]models.Swap, error) {
	var list []models.Swap
	err := r.db.Where("requester_id = ? OR responder_id = ?", userID, userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *SwapRepository) Update(s *models.Swap) error {
	return r.db.Save(s).Error
}

func (r *SwapRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Swap{}, id).Error
}
