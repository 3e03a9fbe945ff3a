package model

import "time"

// Category is one of the five life focus areas tasks are banked under.
// There is no delete path; retiring an area means renaming it to empty.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
