package repository

import (
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"

	"gorm.io/gorm"
)

type DivisionRepository struct {
	db *gorm.DB
}

func NewDivisionRepository(db *gorm.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

// Create inserts a division together with its coach rows.
func (r *DivisionRepository) Create(division *models.Division) error {
	return r.db.Create(division).Error
}

// Update persists the scalar fields of a division.
func (r *DivisionRepository) Update(division *models.Division) error {
	return r.db.Omit("Coaches").Save(division).Error
}

// ReplaceCoaches swaps the whole roster of a division in one transaction so
// the parent and child rows always move together.
func (r *DivisionRepository) ReplaceCoaches(divisionID uint, coaches []models.Coach) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("division_id = ?", divisionID).Delete(&models.Coach{}).Error; err != nil {
			return err
		}
		for i := range coaches {
			coaches[i].ID = 0
			coaches[i].DivisionID = divisionID
		}
		return tx.Create(&coaches).Error
	})
}

// AddCoach appends one coach row to a division's roster.
func (r *DivisionRepository) AddCoach(coach *models.Coach) error {
	return r.db.Create(coach).Error
}

// RemoveCoach deletes one coach row by division and uid. Returns the number
// of rows removed.
func (r *DivisionRepository) RemoveCoach(divisionID uint, uid string) (int64, error) {
	result := r.db.Where("division_id = ? AND uid = ?", divisionID, uid).Delete(&models.Coach{})
	return result.RowsAffected, result.Error
}

// Delete removes a division and, via cascade, its coach rows. Historical
// telemetry referencing the train is left in place.
func (r *DivisionRepository) Delete(id uint) error {
	return r.db.Select("Coaches").Delete(&models.Division{ID: id}).Error
}

// FindByID returns a division with its roster loaded.
func (r *DivisionRepository) FindByID(id uint) (*models.Division, error) {
	var division models.Division
	if err := r.db.Preload("Coaches").First(&division, id).Error; err != nil {
		return nil, err
	}
	return &division, nil
}

// FindByTrainNumber returns the division owning the given train number.
func (r *DivisionRepository) FindByTrainNumber(trainNumber string) (*models.Division, error) {
	var division models.Division
	err := r.db.Preload("Coaches").Where("train_number = ?", trainNumber).First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

// FindByTrainName returns the division with the given train name.
func (r *DivisionRepository) FindByTrainName(trainName string) (*models.Division, error) {
	var division models.Division
	err := r.db.Preload("Coaches").Where("train_name = ?", trainName).First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

// ExistsTrainNumber reports whether any division already owns trainNumber.
func (r *DivisionRepository) ExistsTrainNumber(trainNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Division{}).Where("train_number = ?", trainNumber).Count(&count).Error
	return count > 0, err
}

// ListAll returns every division, newest first.
func (r *DivisionRepository) ListAll() ([]models.Division, error) {
	var divisions []models.Division
	err := r.db.Preload("Coaches").Order("created_at DESC").Find(&divisions).Error
	return divisions, err
}

// ListRecent returns the n most recently created divisions.
func (r *DivisionRepository) ListRecent(n int) ([]models.Division, error) {
	var divisions []models.Division
	err := r.db.Preload("Coaches").Order("created_at DESC").Limit(n).Find(&divisions).Error
	return divisions, err
}
