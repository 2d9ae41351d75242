package services

import (
	"log"
	"time"

	"quest-board/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Sweeper struct {
	DB *gorm.DB
}

func NewSweeper(db *gorm.DB) *Sweeper {
	return &Sweeper{DB: db}
}

// SweepReport summarizes one sweep run, for operator visibility.
type SweepReport struct {
	RemovedRequests    []RemovedRequest `json:"removed_requests"`
	AdventurersUpdated int              `json:"adventurers_updated"`
}

type RemovedRequest struct {
	ID             uint      `json:"id"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// SweepExpiredRequests deletes every pending request whose expiration date is
// past, and frees the adventurers those requests held. Runs as one
// transaction; a second run with no intervening change finds nothing and
// writes nothing.
func (s *Sweeper) SweepExpiredRequests(now time.Time) (*SweepReport, error) {
	report := &SweepReport{RemovedRequests: []RemovedRequest{}}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var expired []models.Request
		if err := tx.Where("status = ? AND expiration_date < ?", models.RequestPending, now).
			Find(&expired).Error; err != nil {
			return storeErr(err)
		}
		if len(expired) == 0 {
			return nil
		}

		requestIDs := make([]uint, 0, len(expired))
		for _, request := range expired {
			requestIDs = append(requestIDs, request.ID)
			report.RemovedRequests = append(report.RemovedRequests, RemovedRequest{
				ID:             request.ID,
				ExpirationDate: request.ExpirationDate,
			})
		}

		var joins []models.RequestAdventurer
		if err := tx.Where("request_id IN ?", requestIDs).Find(&joins).Error; err != nil {
			return storeErr(err)
		}
		// An adventurer can only hold one assignment, but deduplicate anyway
		// so a corrupted pivot table can't inflate the bulk update.
		seen := make(map[uint]bool, len(joins))
		adventurerIDs := make([]uint, 0, len(joins))
		for _, join := range joins {
			if seen[join.AdventurerID] {
				continue
			}
			seen[join.AdventurerID] = true
			adventurerIDs = append(adventurerIDs, join.AdventurerID)
		}

		// Join rows first: the FK cascade covers stores that enforce it,
		// deleting explicitly covers those that don't.
		if err := tx.Where("request_id IN ?", requestIDs).
			Delete(&models.RequestAdventurer{}).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Where("id IN ?", requestIDs).Delete(&models.Request{}).Error; err != nil {
			return storeErr(err)
		}

		if len(adventurerIDs) > 0 {
			result := tx.Model(&models.Adventurer{}).Where("id IN ?", adventurerIDs).
				Update("status", models.AdventurerAvailable)
			if result.Error != nil {
				return storeErr(result.Error)
			}
			report.AdventurersUpdated = int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Run is the fiber handler behind the manual sweep endpoint.
func (s *Sweeper) Run(c *fiber.Ctx) error {
	report, err := s.SweepExpiredRequests(time.Now())
	if err != nil {
		return respondError(c, err)
	}
	log.Printf("%d requests have been deleted and %d adventurers have been updated",
		len(report.RemovedRequests), report.AdventurersUpdated)
	return c.JSON(report)
}
