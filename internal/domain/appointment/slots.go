package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/domain/schedule"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type SlotQuery struct {
	PracticeID     uint
	PractitionerID uint
	ServiceID      uint
	// Day in the practice timezone; only the calendar date is used.
	Date time.Time
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeSlots walks each availability window in steps of duration and keeps
// the steps that fit entirely inside the window and overlap no booking.
func FreeSlots(
	day time.Time,
	loc *time.Location,
	windows []models.Availability,
	booked []models.Appointment,
	duration time.Duration,
) []TimeSlot {

	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	seen := make(map[string]bool)

	for _, w := range windows {
		if !w.EffectiveOn(day) {
			continue
		}

		winStart, err := schedule.ClockOn(day, w.StartTime, loc)
		if err != nil {
			continue
		}
		winEnd, err := schedule.ClockOn(day, w.EndTime, loc)
		if err != nil {
			continue
		}

		for cur := winStart; !cur.Add(duration).After(winEnd); cur = cur.Add(duration) {
			slotEnd := cur.Add(duration)

			busy := false
			for _, ap := range booked {
				if schedule.OverlapsTime(cur, slotEnd, ap.StartTime, ap.EndTime) {
					busy = true
					break
				}
			}
			if busy {
				continue
			}

			slot := TimeSlot{
				Start: cur.In(loc).Format("15:04"),
				End:   slotEnd.In(loc).Format("15:04"),
			}
			if !seen[slot.Start] {
				seen[slot.Start] = true
				slots = append(slots, slot)
			}
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots
}
