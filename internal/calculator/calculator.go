// Package calculator computes per-person base rent and net settlement
// amounts. It is pure: no state, no storage, no side effects.
//
// Degenerate inputs (no roommates, non-finite rent) yield 0 rather than an
// error. An empty room is a legitimate "nothing to show yet" state, not a
// failure. Full floating precision is retained here; rounding to 2 decimals
// happens only at display/export time.
package calculator

import (
	"math"

	"github.com/mmynk/rentmate/internal/models"
)

// BaseRentPerPerson returns the room's monthly rent divided evenly by the
// current roommate count. Returns 0 when the count is zero or the rent (or
// the resulting share) is not a finite number.
func BaseRentPerPerson(room *models.Room) float64 {
	n := len(room.Roommates)
	if n == 0 {
		return 0
	}
	share := room.MonthlyRent / float64(n)
	if math.IsNaN(share) || math.IsInf(share, 0) {
		return 0
	}
	return share
}

// FinalAmount returns the roommate's base rent minus their three bill
// accumulators. The result may be negative, meaning the roommate overpaid
// relative to their share and is owed a refund. No clamping is applied.
//
// When the base rent is degenerate (no roommates, non-finite rent) the
// result is 0 regardless of the accumulators.
func FinalAmount(room *models.Room, roommate *models.Roommate) float64 {
	if len(room.Roommates) == 0 || !isFinite(room.MonthlyRent) {
		return 0
	}
	return BaseRentPerPerson(room) -
		finiteOrZero(roommate.WaterPaid) -
		finiteOrZero(roommate.EBPaid) -
		finiteOrZero(roommate.OtherPaid)
}

// Snapshot captures a per-roommate Calculation for every roommate in the
// room, in roster order, using the current accumulator values.
func Snapshot(room *models.Room) []models.Calculation {
	base := BaseRentPerPerson(room)
	calcs := make([]models.Calculation, len(room.Roommates))
	for i := range room.Roommates {
		rm := &room.Roommates[i]
		calcs[i] = models.Calculation{
			RoommateID:  rm.ID,
			Name:        rm.Name,
			BaseRent:    base,
			WaterBill:   rm.WaterPaid,
			EBBill:      rm.EBPaid,
			OtherBill:   rm.OtherPaid,
			FinalAmount: FinalAmount(room, rm),
		}
	}
	return calcs
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}
