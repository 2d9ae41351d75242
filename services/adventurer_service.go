package services

import (
	"errors"

	"quest-board/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdventurerService struct {
	DB *gorm.DB
}

func NewAdventurerService(db *gorm.DB) *AdventurerService {
	return &AdventurerService{DB: db}
}

// --- domain operations ---

func (s *AdventurerService) ListAdventurers() ([]models.Adventurer, error) {
	var adventurers []models.Adventurer
	if err := s.DB.Preload("Speciality").Find(&adventurers).Error; err != nil {
		return nil, storeErr(err)
	}
	return adventurers, nil
}

func (s *AdventurerService) GetAdventurer(id uint) (*models.Adventurer, error) {
	var adventurer models.Adventurer
	err := s.DB.Preload("Speciality").First(&adventurer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Adventurer not found")
		}
		return nil, storeErr(err)
	}
	return &adventurer, nil
}

// DeleteAdventurer removes an adventurer. Only available adventurers may be
// deleted; working or resting ones are refused.
func (s *AdventurerService) DeleteAdventurer(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var adventurer models.Adventurer
		if err := tx.First(&adventurer, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Adventurer not found")
			}
			return storeErr(err)
		}
		// The status predicate on the DELETE is the enforcement point: a
		// concurrent attach blocks on the row lock and this delete matches
		// zero rows once the adventurer is working.
		result := tx.Where("id = ? AND status = ?", id, models.AdventurerAvailable).
			Delete(&models.Adventurer{})
		if result.Error != nil {
			return storeErr(result.Error)
		}
		if result.RowsAffected == 0 {
			return invalidState("Adventurer is not available and can not be deleted")
		}
		return nil
	})
}

// --- input validation ---

type AdventurerInput struct {
	FullName        string  `json:"full_name"`
	ExperienceLevel float64 `json:"experience_level"`
	SpecialityID    uint    `json:"speciality_id"`
}

func (in *AdventurerInput) validate() string {
	if in.FullName == "" {
		return "full_name is required"
	}
	if in.ExperienceLevel < 1 || in.ExperienceLevel > 100 {
		return "experience_level must be between 1 and 100"
	}
	if in.SpecialityID == 0 {
		return "speciality_id is required"
	}
	return ""
}

// --- fiber handlers ---

func (s *AdventurerService) List(c *fiber.Ctx) error {
	adventurers, err := s.ListAdventurers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(adventurers)
}

func (s *AdventurerService) GetByID(c *fiber.Ctx) error {
	adventurerID, ok := parseIDParam(c, "adventurerId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Adventurer not found"})
	}
	adventurer, err := s.GetAdventurer(adventurerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(adventurer)
}

func (s *AdventurerService) Create(c *fiber.Ctx) error {
	var in AdventurerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}
	if msg := in.validate(); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": msg})
	}

	var speciality models.Speciality
	if err := s.DB.First(&speciality, "id = ?", in.SpecialityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "speciality_id not found"})
		}
		return respondError(c, storeErr(err))
	}

	// New adventurers always start available.
	adventurer := &models.Adventurer{
		FullName:        in.FullName,
		ExperienceLevel: in.ExperienceLevel,
		SpecialityID:    in.SpecialityID,
		Status:          models.AdventurerAvailable,
	}
	if err := s.DB.Create(adventurer).Error; err != nil {
		return respondError(c, storeErr(err))
	}
	adventurer.Speciality = &speciality
	return c.Status(fiber.StatusCreated).JSON(adventurer)
}

func (s *AdventurerService) Delete(c *fiber.Ctx) error {
	adventurerID, ok := parseIDParam(c, "adventurerId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Adventurer not found"})
	}
	if err := s.DeleteAdventurer(adventurerID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
