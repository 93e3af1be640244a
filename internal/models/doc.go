// Package models defines the core domain models for Rentmate.
//
// # Models
//
//   - Room: the single live room, its total monthly rent, and its roommates
//   - Roommate: one person sharing the rent, with per-category bill accumulators
//   - MonthlyRecord: a frozen snapshot of a closed month (room + calculations)
//   - Calculation: one roommate's settled figures inside a MonthlyRecord
//   - SessionMarkers: lightweight resume state for the login/setup flow
//
// # Design Principles
//
//  1. Plain data only: models hold no behavior beyond deep copying; all
//     arithmetic lives in internal/calculator and all mutation in
//     internal/roster and internal/records.
//  2. Snapshots share nothing: a MonthlyRecord carries deep copies so later
//     roster edits can never retroactively alter stored history.
//  3. JSON tags match the persisted snapshot format used by the storage layer,
//     so a saved room round-trips byte-for-byte across restarts.
package models
