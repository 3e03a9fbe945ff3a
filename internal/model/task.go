package model

import "time"

// Task status values. The strings are stable: they appear verbatim in
// export bundles and must keep matching older backups.
const (
	StatusBank      = "bank"
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
)

// Task is a single item in the planner. A bank task carries no date or
// slot; a planned or completed task always has a date and may occupy an
// hourly slot. Deleted is a soft tombstone kept for backup fidelity.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `json:"title"`
	CategoryID  uint      `gorm:"index" json:"categoryId"`
	Status      string    `gorm:"index" json:"status"`
	PlannedDate *string   `gorm:"index" json:"plannedDate"` // YYYY-MM-DD
	TimeSlot    *string   `json:"timeSlot"`                 // "HH:00"
	CreatedAt   time.Time `json:"createdAt"`
}

// Slotted reports whether the task occupies an hourly slot.
func (t *Task) Slotted() bool {
	return t.TimeSlot != nil
}
