package models

// BillKind identifies one of the three bill accumulators on a roommate.
type BillKind string

const (
	BillWater BillKind = "water"
	BillEB    BillKind = "eb"
	BillOther BillKind = "other"
)

// Valid reports whether k is one of the known bill kinds.
func (k BillKind) Valid() bool {
	switch k {
	case BillWater, BillEB, BillOther:
		return true
	}
	return false
}

// Roommate is one person sharing the room's rent.
//
// The three *Paid fields are running totals of what this roommate has
// personally paid toward each bill category within the current open month.
// They only ever offset this roommate's own share, never the group's.
type Roommate struct {
	// ID is the unique identifier for the roommate (UUID format).
	// Assigned at creation, never reused or edited.
	ID string `json:"id"`

	// Name is the display name (non-empty).
	Name string `json:"name"`

	// Mobile is the 10-digit mobile number, digits only.
	Mobile string `json:"mobile"`

	WaterPaid float64 `json:"waterBillPaid"`
	EBPaid    float64 `json:"ebBillPaid"`
	OtherPaid float64 `json:"otherBillPaid"`
}

// Room is the single live room being split. It is fully overwritten at setup,
// never partially merged.
type Room struct {
	// Name is the display name of the room (e.g., "Apartment 3B").
	Name string `json:"name"`

	// MonthlyRent is the total shared rent figure, not per-roommate.
	MonthlyRent float64 `json:"monthlyRent"`

	// Roommates in insertion order. Order is significant only for display.
	Roommates []Roommate `json:"roommates"`
}

// Clone returns a deep copy of the room.
func (r Room) Clone() Room {
	out := r
	out.Roommates = make([]Roommate, len(r.Roommates))
	copy(out.Roommates, r.Roommates)
	return out
}

// Find returns a pointer to the roommate with the given id, or nil.
func (r *Room) Find(id string) *Roommate {
	for i := range r.Roommates {
		if r.Roommates[i].ID == id {
			return &r.Roommates[i]
		}
	}
	return nil
}

// ValidMobile reports whether s is exactly 10 digits.
func ValidMobile(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
