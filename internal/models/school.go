package models

// School is the top-level scope a generation run is performed within.
// Its CRUD surface lives outside the core; the scheduler only needs to
// confirm the school exists before it touches anything else.
type School struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
