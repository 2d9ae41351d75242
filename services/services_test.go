package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"quest-board/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "quest.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.SetupJoinTable(&models.Request{}, "Adventurers", &models.RequestAdventurer{}); err != nil {
		t.Fatalf("join table: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Speciality{},
		&models.Adventurer{},
		&models.Request{},
		&models.RequestAdventurer{},
		&models.User{},
		&models.ApiToken{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedSpeciality(t *testing.T, db *gorm.DB) models.Speciality {
	t.Helper()
	speciality := models.Speciality{Name: "knight"}
	if err := db.Where("name = ?", speciality.Name).FirstOrCreate(&speciality).Error; err != nil {
		t.Fatalf("seed speciality: %v", err)
	}
	return speciality
}

func seedAdventurer(t *testing.T, db *gorm.DB, status string) models.Adventurer {
	t.Helper()
	speciality := seedSpeciality(t, db)
	adventurer := models.Adventurer{
		FullName:        "Sherwood Schinner",
		ExperienceLevel: 76,
		Status:          status,
		SpecialityID:    speciality.ID,
	}
	if err := db.Create(&adventurer).Error; err != nil {
		t.Fatalf("seed adventurer: %v", err)
	}
	return adventurer
}

func seedRequest(t *testing.T, db *gorm.DB, status string, expiration time.Time) models.Request {
	t.Helper()
	request := models.Request{
		Name:           "Conquest of an isolated territory",
		Description:    "Adventurers wanted for a territorial conquest.",
		Bounty:         100,
		Status:         status,
		ClientName:     "John Doe",
		Duration:       3,
		ExpirationDate: expiration,
	}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return request
}

func adventurerStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var adventurer models.Adventurer
	if err := db.First(&adventurer, "id = ?", id).Error; err != nil {
		t.Fatalf("reload adventurer: %v", err)
	}
	return adventurer.Status
}

func joinCount(t *testing.T, db *gorm.DB, requestID, adventurerID uint) int64 {
	t.Helper()
	var count int64
	err := db.Model(&models.RequestAdventurer{}).
		Where("request_id = ? AND adventurer_id = ?", requestID, adventurerID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count joins: %v", err)
	}
	return count
}

func wantKind(t *testing.T, err error, kind ErrorKind) *ServiceError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if serviceErr.Kind != kind {
		t.Fatalf("expected kind %d, got %d (%s)", kind, serviceErr.Kind, serviceErr.Message)
	}
	return serviceErr
}
