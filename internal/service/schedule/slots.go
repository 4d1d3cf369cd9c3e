// Package schedule computes bookable time labels for a clinic day.
// Everything here is a pure function of its inputs; the appointment
// service supplies the booked labels from storage.
package schedule

import (
	"fmt"
	"math"
	"strings"
)

// Default working-hours window: 08:00 through 17:30 inclusive.
const (
	DefaultStartHour   = 8
	DefaultEndHour     = 17
	DefaultStepMinutes = 30
)

// DailySlots produces the ordered HH:MM labels for a working day, starting
// at startHour:00 and stepping by stepMinutes up to and including
// endHour:30. Steps that do not divide 60 still terminate at the boundary;
// the sequence is deterministic either way.
func DailySlots(startHour, endHour, stepMinutes int) []string {
	if stepMinutes <= 0 {
		stepMinutes = DefaultStepMinutes
	}

	end := endHour*60 + 30
	slots := make([]string, 0, (end-startHour*60)/stepMinutes+1)
	for m := startHour * 60; m <= end; m += stepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// NormalizeLabel reduces a stored time value to its HH:MM prefix,
// truncating seconds or any other suffix.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if len(label) >= 5 && label[2] == ':' {
		return label[:5]
	}
	return label
}

// Available returns all minus booked, preserving the order of all.
// Booked labels are normalized before comparison.
func Available(all, booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[NormalizeLabel(b)] = struct{}{}
	}

	available := make([]string, 0, len(all))
	for _, slot := range all {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available
}

// Utilization returns booked/total as a nearest-integer percentage,
// 0 when total is zero.
func Utilization(total, booked int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(booked) / float64(total) * 100))
}
