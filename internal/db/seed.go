package db

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/lifeline-ai/lifeline/internal/models"
	"gorm.io/gorm"
)

// Sample fleet identifiers, one block per responder category.
var (
	ambulanceIdentifiers = []string{"AMB-001", "AMB-002", "AMB-003", "AMB-004", "AMB-005"}
	policeIdentifiers    = []string{"POL-101", "POL-102", "POL-103", "POL-104", "POL-105"}
	fireIdentifiers      = []string{"FIRE-201", "FIRE-202", "FIRE-203"}
	otherIdentifiers     = []string{"OTHER-301", "OTHER-302"}
)

var seedDistricts = []string{"Chennai", "Coimbatore", "Madurai", "Salem", "Trichy"}

// SeedResponders populates sample district locations and responder units.
// Existing rows are left untouched, so seeding is safe to re-run.
func SeedResponders(db *gorm.DB) error {
	locationIDs, err := seedLocations(db)
	if err != nil {
		return err
	}

	groups := []struct {
		rtype       models.ResponderType
		identifiers []string
	}{
		{models.ResponderAmbulance, ambulanceIdentifiers},
		{models.ResponderPolice, policeIdentifiers},
		{models.ResponderFire, fireIdentifiers},
		{models.ResponderOther, otherIdentifiers},
	}

	for _, g := range groups {
		for _, identifier := range g.identifiers {
			var existing models.Responder
			err := db.Where("identifier = ?", identifier).First(&existing).Error
			if err == nil {
				log.Printf("db: responder already exists: %s", identifier)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("db: seed lookup %s: %w", identifier, err)
			}

			locID := locationIDs[rand.Intn(len(locationIDs))]
			responder := models.Responder{
				ID:            uuid.NewString(),
				ResponderType: g.rtype,
				Identifier:    identifier,
				Status:        models.ResponderAvailable,
				LocationID:    &locID,
			}
			if err := db.Create(&responder).Error; err != nil {
				return fmt.Errorf("db: seed responder %s: %w", identifier, err)
			}
			log.Printf("db: created responder %s (%s)", identifier, g.rtype)
		}
	}
	return nil
}

// seedLocations creates one sample location per district if absent and
// returns all district location ids.
func seedLocations(db *gorm.DB) ([]string, error) {
	ids := make([]string, 0, len(seedDistricts))
	for _, district := range seedDistricts {
		var existing models.Location
		err := db.Where("district = ?", district).First(&existing).Error
		if err == nil {
			ids = append(ids, existing.ID)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("db: seed location lookup %s: %w", district, err)
		}

		loc := models.Location{
			ID:             uuid.NewString(),
			Address:        district + " District Center",
			Landmark:       district + " Main Road",
			City:           district,
			District:       district,
			GPSCoordinates: fmt.Sprintf("%.4f,%.4f", 8.0+rand.Float64()*5.0, 76.0+rand.Float64()*4.5),
		}
		if err := db.Create(&loc).Error; err != nil {
			return nil, fmt.Errorf("db: seed location %s: %w", district, err)
		}
		ids = append(ids, loc.ID)
	}
	return ids, nil
}
