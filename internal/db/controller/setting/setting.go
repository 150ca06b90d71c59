// Package setting provides access to the named settings table.
// All functions expect a handle on which the settings table exists, for example the
// one localstore.Use[models.Setting] passes in.
package setting

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RecipeSync/RecipeSync/internal/db/models"
)

const (
	nameQueryPattern      = "name = ?"
	nameValueQueryPattern = "name = ? AND value = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when a setting name is empty.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting

	result := db.Where(nameQueryPattern, name).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &s, nil
}

// Set creates or replaces the value of a setting in one statement.
func Set(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	s := models.Setting{Name: name, Value: value}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	return Get(db, name)
}

// Delete deletes a setting by name.
func Delete(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Insert creates a setting unless one with the same name exists.
// It reports whether the row was created.
func Insert(db *gorm.DB, name string, value []byte) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if name == "" {
		return false, ErrSettingNameEmpty
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.Setting{Name: name, Value: value})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// Swap replaces the value of a setting only while it still equals old.
// It reports whether the value was replaced.
func Swap(db *gorm.DB, name string, old, value []byte) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if name == "" {
		return false, ErrSettingNameEmpty
	}

	result := db.Model(&models.Setting{}).
		Where(nameValueQueryPattern, name, old).
		Update("value", value)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// DeleteValue deletes a setting only while it still holds value.
// It reports whether the row was deleted.
func DeleteValue(db *gorm.DB, name string, value []byte) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if name == "" {
		return false, ErrSettingNameEmpty
	}

	result := db.Where(nameValueQueryPattern, name, value).Delete(&models.Setting{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
