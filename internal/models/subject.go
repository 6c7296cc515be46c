package models

// SubjectType categorizes subjects (e.g. "Core", "Advanced").
type SubjectType struct {
	ID       int64  `db:"id"`
	Label    string `db:"label"`
	ColorHex string `db:"color_hex"`
}

// Subject is a unit of work persons are allocated to.
type Subject struct {
	ID    int64  `db:"id"`
	Label string `db:"label"`

	// TypeID is nil until a type is assigned.
	TypeID *int64 `db:"subject_type_id"`
}

// SubjectRef is the result of resolving a subject label.
type SubjectRef struct {
	ID     int64
	TypeID *int64
}

// HasType reports whether the subject carries a type assignment.
func (r SubjectRef) HasType() bool { return r.TypeID != nil }
