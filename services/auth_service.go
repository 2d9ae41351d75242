package services

import (
	"errors"
	"strconv"
	"time"

	"quest-board/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	DB     *gorm.DB
	Secret []byte
}

func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{DB: db, Secret: []byte(secret)}
}

// Login verifies credentials and issues a revocable bearer token. The token's
// jti is persisted so logout can revoke it.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var user models.User
	if err := s.DB.First(&user, "email = ?", in.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return respondError(c, storeErr(err))
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credentials"})
	}

	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"jti": tokenID,
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sign token"})
	}

	apiToken := &models.ApiToken{ID: tokenID, UserID: user.ID, ExpiresAt: expiresAt}
	if err := s.DB.Create(apiToken).Error; err != nil {
		return respondError(c, storeErr(err))
	}

	return c.JSON(fiber.Map{"type": "bearer", "token": signed, "user": user})
}

// Logout revokes the caller's token by deleting its api_tokens row.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals("token_id").(string)
	if tokenID != "" {
		if err := s.DB.Where("id = ?", tokenID).Delete(&models.ApiToken{}).Error; err != nil {
			return respondError(c, storeErr(err))
		}
	}
	return c.JSON(fiber.Map{"revoked": true})
}

// EnsureAdminUser seeds the default operator account when it is missing. Safe
// to run on every boot.
func (s *AuthService) EnsureAdminUser(email, password, fullName string) error {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Create(&models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}).Error
}
