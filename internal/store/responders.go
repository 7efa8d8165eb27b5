package store

import (
	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/gorm"
)

// FindAvailableResponders returns every AVAILABLE responder matching the
// emergency's responder category, optionally scoped to a location. The
// category mapping is total (unknown types resolve to OTHER), so this
// never fails on input; selection among the returned units is the
// caller's job and ordering beyond "some available match" is not
// guaranteed.
func (s *Store) FindAvailableResponders(et models.EmergencyType, locationID string) ([]models.Responder, error) {
	rtype := models.MapEmergencyType(et)

	var responders []models.Responder
	err := s.do("find responders", func(tx *gorm.DB) error {
		q := tx.Where("responder_type = ? AND status = ?", rtype, models.ResponderAvailable)
		if locationID != "" {
			q = q.Where("location_id = ?", locationID)
		}
		return q.Find(&responders).Error
	})
	if err != nil {
		return nil, err
	}
	return responders, nil
}

// GetResponder loads one responder by id, or (nil, nil) when absent.
func (s *Store) GetResponder(id string) (*models.Responder, error) {
	var responder *models.Responder
	err := s.do("get responder", func(tx *gorm.DB) error {
		var found models.Responder
		if err := tx.First(&found, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		responder = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responder, nil
}

// MarkResponderStatus updates a responder's availability status.
func (s *Store) MarkResponderStatus(id string, status models.ResponderStatus) error {
	return s.do("mark responder", func(tx *gorm.DB) error {
		return tx.Model(&models.Responder{}).
			Where("id = ?", id).Update("status", status).Error
	})
}
