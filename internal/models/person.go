package models

// Team groups persons.
type Team struct {
	ID    int64  `db:"id"`
	Label string `db:"label"`
}

// Person is a member whose workload is planned.
// (Name, Firstname) is treated as the natural key but is not declared
// unique in the schema; lookups pick the lowest ID.
type Person struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Firstname string `db:"firstname"`

	// TeamID is nil when the person has no team.
	TeamID *int64 `db:"team_id"`
}
