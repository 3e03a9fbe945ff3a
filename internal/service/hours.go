package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"efecto18/internal/repository"
)

// Setting keys for the working-hours window.
const (
	SettingStartHour = "start_hour"
	SettingEndHour   = "end_hour"
)

const (
	DefaultStartHour = 8
	DefaultEndHour   = 18
)

// DateLayout is the calendar-date format used everywhere in the store.
const DateLayout = "2006-01-02"

// DateOf formats t as a store date.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Slot formats an hour as its "HH:00" slot label.
func Slot(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// WorkingHours is the inclusive [Start, End] hour window the day is
// scheduled within. Both the sentinel and the slot grid read it.
type WorkingHours struct {
	Start int
	End   int
}

// LoadWorkingHours reads the window from settings, falling back to the
// 8..18 defaults for absent or unparsable values.
func LoadWorkingHours(ctx context.Context, settings *repository.SettingRepository) (WorkingHours, error) {
	start, err := loadHour(ctx, settings, SettingStartHour, DefaultStartHour)
	if err != nil {
		return WorkingHours{}, err
	}
	end, err := loadHour(ctx, settings, SettingEndHour, DefaultEndHour)
	if err != nil {
		return WorkingHours{}, err
	}
	return WorkingHours{Start: start, End: end}, nil
}

// SaveWorkingHours validates and persists the window. The end must lie
// strictly after the start; that rule belongs to this settings surface,
// not to the components reading the window.
func SaveWorkingHours(ctx context.Context, settings *repository.SettingRepository, hours WorkingHours) error {
	if hours.Start < 0 || hours.Start > 23 || hours.End < 0 || hours.End > 23 {
		return validationf("hours must be between 0 and 23")
	}
	if hours.End < hours.Start+1 {
		return validationf("end hour must be after start hour")
	}
	if err := settings.Set(ctx, SettingStartHour, strconv.Itoa(hours.Start)); err != nil {
		return err
	}
	return settings.Set(ctx, SettingEndHour, strconv.Itoa(hours.End))
}

// Contains reports whether hour falls inside the window, bounds included.
func (w WorkingHours) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// Slots returns the hourly slot labels of the window, in order.
func (w WorkingHours) Slots() []string {
	var slots []string
	for h := w.Start; h <= w.End; h++ {
		slots = append(slots, Slot(h))
	}
	return slots
}

func loadHour(ctx context.Context, settings *repository.SettingRepository, key string, fallback int) (int, error) {
	raw, ok, err := settings.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	hour, err := strconv.Atoi(raw)
	if err != nil || hour < 0 || hour > 23 {
		return fallback, nil
	}
	return hour, nil
}
