package models

import (
	"errors"

	"gorm.io/gorm"
)

// SpecialityNames is the guild's canonical speciality list.
var SpecialityNames = []string{
	"archer",
	"barbarian",
	"paladin",
	"arcane mage",
	"knight",
	"geomancer",
	"alchemist",
	"black smith",
	"enchanting",
	"messenger",
}

// SeedSpecialities inserts any canonical speciality that is missing. Safe to
// run on every boot.
func SeedSpecialities(db *gorm.DB) error {
	for _, name := range SpecialityNames {
		var speciality Speciality
		err := db.Where("name = ?", name).First(&speciality).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&Speciality{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
