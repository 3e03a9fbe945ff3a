package model

// Setting is a persisted key-value pair: the working-hours window and the
// countdown timer deadline live here so they survive restarts.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}
