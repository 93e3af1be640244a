package models

// Calculation is one roommate's settled figures at the moment a month was
// closed. Name is captured so later renames or removals do not alter history.
type Calculation struct {
	RoommateID  string  `json:"roommateId"`
	Name        string  `json:"name"`
	BaseRent    float64 `json:"baseRent"`
	WaterBill   float64 `json:"waterBill"`
	EBBill      float64 `json:"ebBill"`
	OtherBill   float64 `json:"otherBill"`
	FinalAmount float64 `json:"finalAmount"`
}

// MonthlyRecord is a frozen snapshot of one closed month. It is created only
// by the month-close operation and never mutated afterward.
type MonthlyRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// Month is the full month name (e.g., "March").
	Month string `json:"month"`

	// Year is the calendar year of the closed month.
	Year int `json:"year"`

	// Room is a deep copy of the live room at close time.
	Room Room `json:"room"`

	// Calculations holds one entry per roommate, in roster order.
	Calculations []Calculation `json:"calculations"`

	// Timestamp is the Unix timestamp when the record was created.
	Timestamp int64 `json:"timestamp"`
}

// Clone returns a deep copy of the record.
func (m MonthlyRecord) Clone() MonthlyRecord {
	out := m
	out.Room = m.Room.Clone()
	out.Calculations = make([]Calculation, len(m.Calculations))
	copy(out.Calculations, m.Calculations)
	return out
}

// SessionMarkers is the lightweight resume state for the cosmetic login flow.
// It carries no financial data.
type SessionMarkers struct {
	Step  string `json:"currentStep"`
	Phone string `json:"phoneNumber"`
}
