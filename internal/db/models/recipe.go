package models

// Recipe is a single recipe record.
// ID is assigned by the local store on insert and stays zero for records that came
// straight from the remote source.
type Recipe struct {
	// ID is the local primary key.
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	// Name is the display name, at most 255 characters.
	Name string `gorm:"size:255;not null" json:"name" validate:"max=255"`
	// PhotoURL points to the recipe image. Freeform, may be empty.
	PhotoURL string `gorm:"column:photo_url" json:"photoUrl"`
	// Instructions is the preparation text.
	Instructions string `gorm:"type:text" json:"instructions"`
}

// TableName implements gorm's Tabler.
func (Recipe) TableName() string {
	return "recipes"
}

// GetID returns the primary key.
func (r Recipe) GetID() uint64 {
	return r.ID
}
