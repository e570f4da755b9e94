package models

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusWon       LeadStatus = "Won"
	LeadStatusLost      LeadStatus = "Lost"
)

// Valid reports whether the status is one of the five pipeline values.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

const (
	LeadSourceDefault = "Website"
	LeadSourceImport  = "Import"
)

type Lead struct {
	BaseModel
	Name       string     `gorm:"not null;index"`
	Email      string     `gorm:"not null;index"`
	Phone      string
	Source     string     `gorm:"default:'Website'"`
	Status     LeadStatus `gorm:"type:varchar(20);not null;default:'New'"`
	AssignedTo *string    `gorm:"type:uuid;index"`
	CreatedBy  string     `gorm:"type:uuid"`

	// Relations. Assignee and note authors are non-owning references:
	// a deleted user leaves a dangling id that resolves to no record.
	Notes    []Note `gorm:"foreignKey:LeadID"`
	Tags     []Tag  `gorm:"many2many:lead_tags"`
	Assignee *User  `gorm:"foreignKey:AssignedTo"`
}

// Note is embedded in the Lead aggregate: created once, never edited,
// deleted only with its lead.
type Note struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	LeadID    string    `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"not null"`
	CreatedBy string    `gorm:"type:uuid"`
	CreatedAt time.Time `gorm:"default:now()"`

	Author *User `gorm:"foreignKey:CreatedBy"`
}
