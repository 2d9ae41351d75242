package services

import (
	"errors"
	"strings"
	"time"

	"quest-board/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RequestService struct {
	DB *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{DB: db}
}

// --- domain operations ---

// AttachAdventurer assigns an available adventurer to a pending request. All
// precondition checks and both writes run in one transaction; the first
// failing precondition wins.
func (s *RequestService) AttachAdventurer(requestID, adventurerID uint) (*models.Request, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var request models.Request
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Request not found")
			}
			return storeErr(err)
		}

		if request.Status != models.RequestPending {
			return invalidState("You can not add an adventurer on a started or finished request")
		}

		var adventurer models.Adventurer
		if err := tx.First(&adventurer, "id = ?", adventurerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Adventurer not found")
			}
			return storeErr(err)
		}

		var attached int64
		if err := tx.Model(&models.RequestAdventurer{}).
			Where("request_id = ? AND adventurer_id = ?", requestID, adventurerID).
			Count(&attached).Error; err != nil {
			return storeErr(err)
		}
		if attached > 0 {
			return conflict("Adventurer already added")
		}

		if err := tx.Create(&models.RequestAdventurer{RequestID: requestID, AdventurerID: adventurerID}).Error; err != nil {
			return storeErr(err)
		}
		// The status predicate is the enforcement point: the UPDATE takes the
		// row lock, so a concurrent attach of the same adventurer blocks here,
		// re-evaluates against the committed status and matches zero rows.
		result := tx.Model(&models.Adventurer{}).
			Where("id = ? AND status = ?", adventurerID, models.AdventurerAvailable).
			Update("status", models.AdventurerWork)
		if result.Error != nil {
			return storeErr(result.Error)
		}
		if result.RowsAffected == 0 {
			return invalidState("Adventurer not available")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRequest(requestID)
}

// DetachAdventurer removes an assignment and unconditionally frees the
// adventurer. Refused once the request has started or finished.
func (s *RequestService) DetachAdventurer(requestID, adventurerID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var join models.RequestAdventurer
		if err := tx.Where("request_id = ? AND adventurer_id = ?", requestID, adventurerID).
			First(&join).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Request or adventurer not found")
			}
			return storeErr(err)
		}

		var request models.Request
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Request or adventurer not found")
			}
			return storeErr(err)
		}

		if request.Status == models.RequestStarted || request.Status == models.RequestFinished {
			return invalidState("You can't delete an adventurer : The request already started or finished")
		}

		result := tx.Where("request_id = ? AND adventurer_id = ?", requestID, adventurerID).
			Delete(&models.RequestAdventurer{})
		if result.Error != nil {
			return storeErr(result.Error)
		}
		if result.RowsAffected == 0 {
			// A concurrent detach won the row; freeing the adventurer again
			// here could clobber a newer assignment's status.
			return notFound("Request or adventurer not found")
		}
		// Detaching always frees the adventurer; the attach rule guarantees at
		// most one active assignment per adventurer.
		if err := tx.Model(&models.Adventurer{}).Where("id = ?", adventurerID).
			Update("status", models.AdventurerAvailable).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}

// GetRequest loads one request with its adventurers and their specialities.
func (s *RequestService) GetRequest(id uint) (*models.Request, error) {
	var request models.Request
	err := s.DB.Preload("Adventurers.Speciality").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Request not found")
		}
		return nil, storeErr(err)
	}
	return &request, nil
}

// ListRequests loads all requests with their attached adventurers.
func (s *RequestService) ListRequests() ([]models.Request, error) {
	var requests []models.Request
	if err := s.DB.Preload("Adventurers").Find(&requests).Error; err != nil {
		return nil, storeErr(err)
	}
	return requests, nil
}

// --- input validation ---

// RequestInput carries the client-supplied fields for create and update.
// Pointer fields distinguish "absent" from zero values on update.
type RequestInput struct {
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	Bounty         *int       `json:"bounty"`
	Status         *string    `json:"status"`
	ClientName     *string    `json:"client_name"`
	StartedAt      *time.Time `json:"started_at"`
	Duration       *int       `json:"duration"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

func (in *RequestInput) validate(requireName bool) string {
	if requireName && in.Name == "" {
		return "name is required"
	}
	if in.Bounty != nil && (*in.Bounty < 0 || *in.Bounty > 100000) {
		return "bounty must be between 0 and 100000"
	}
	if in.Duration != nil && (*in.Duration < 0 || *in.Duration > 365) {
		return "duration must be between 0 and 365"
	}
	if in.Status != nil && *in.Status != "" {
		valid := false
		for _, v := range models.RequestStatusValues() {
			if *in.Status == v {
				valid = true
				break
			}
		}
		if !valid {
			return "status must be one of: " + strings.Join(models.RequestStatusValues(), ", ")
		}
	}
	return ""
}

func (in *RequestInput) apply(request *models.Request) {
	if in.Name != "" {
		request.Name = in.Name
	}
	if in.Description != nil {
		request.Description = *in.Description
	}
	if in.Bounty != nil {
		request.Bounty = *in.Bounty
	}
	if in.Status != nil && *in.Status != "" {
		request.Status = *in.Status
	}
	if in.ClientName != nil {
		request.ClientName = *in.ClientName
	}
	if in.StartedAt != nil {
		request.StartedAt = in.StartedAt
	}
	if in.Duration != nil {
		request.Duration = *in.Duration
	}
	if in.ExpirationDate != nil {
		request.ExpirationDate = *in.ExpirationDate
	}
}

// --- fiber handlers ---

func (s *RequestService) List(c *fiber.Ctx) error {
	requests, err := s.ListRequests()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

func (s *RequestService) GetByID(c *fiber.Ctx) error {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}
	request, err := s.GetRequest(requestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(request)
}

func (s *RequestService) Create(c *fiber.Ctx) error {
	var in RequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}
	if msg := in.validate(true); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": msg})
	}

	request := &models.Request{Status: models.RequestPending}
	in.apply(request)
	if request.ExpirationDate.IsZero() {
		// Default lifetime is one month from creation.
		request.ExpirationDate = time.Now().AddDate(0, 1, 0)
	}

	if err := s.DB.Create(request).Error; err != nil {
		return respondError(c, storeErr(err))
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

func (s *RequestService) Update(c *fiber.Ctx) error {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}

	var in RequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid request body"})
	}
	if msg := in.validate(false); msg != "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": msg})
	}

	var request models.Request
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Request not found")
			}
			return storeErr(err)
		}
		in.apply(&request)
		if err := tx.Save(&request).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(&request)
}

func (s *RequestService) AddAdventurer(c *fiber.Ctx) error {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request not found"})
	}

	var in struct {
		AdventurerID uint `json:"adventurer_id"`
	}
	if err := c.BodyParser(&in); err != nil || in.AdventurerID == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "adventurer_id is required"})
	}

	request, err := s.AttachAdventurer(requestID, in.AdventurerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(request)
}

func (s *RequestService) RemoveAdventurer(c *fiber.Ctx) error {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request or adventurer not found"})
	}
	adventurerID, ok := parseIDParam(c, "adventurerId")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Request or adventurer not found"})
	}

	if err := s.DetachAdventurer(requestID, adventurerID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
