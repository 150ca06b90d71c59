// Package models contains database model definitions.
package models

// Setting represents a named setting stored in the database.
// Value carries a JSON blob owned by the controller that wrote it.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:100;not null"`
	Value []byte
}

// TableName implements gorm's Tabler.
func (Setting) TableName() string {
	return "settings"
}

// GetID returns the primary key.
func (s Setting) GetID() uint64 {
	return s.ID
}
