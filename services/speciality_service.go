package services

import (
	"quest-board/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SpecialityService struct {
	DB *gorm.DB
}

func NewSpecialityService(db *gorm.DB) *SpecialityService {
	return &SpecialityService{DB: db}
}

func (s *SpecialityService) List(c *fiber.Ctx) error {
	var specialities []models.Speciality
	if err := s.DB.Find(&specialities).Error; err != nil {
		return respondError(c, storeErr(err))
	}
	return c.JSON(specialities)
}
