package models

// Skill is catalogue metadata for an assessable skill.
type Skill struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Team groups users for bulk targeting and reporting.
type Team struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
