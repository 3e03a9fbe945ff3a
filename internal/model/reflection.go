package model

import "time"

// Reflection is the nightly journal entry closing out one calendar date.
// At most one exists per date; a second save for the same date overwrites.
type Reflection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"uniqueIndex" json:"date"` // YYYY-MM-DD
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
