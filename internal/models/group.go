package models

// Group collects the headings of a budget under one umbrella, e.g. a city
// and its districts.
type Group struct {
	Base
	BudgetID uint      `gorm:"not null;index" json:"budget_id"`
	Name     string    `gorm:"not null" json:"name"`
	Slug     string    `gorm:"not null" json:"slug"`
	Headings []Heading `gorm:"foreignKey:GroupID" json:"headings,omitempty"`
}

// TableName overrides the default table name.
func (Group) TableName() string { return "budget_groups" }

// Heading is the unit investments compete within. Price is the allocation
// ceiling a single ballot may spend on it.
type Heading struct {
	Base
	GroupID   uint     `gorm:"not null;index" json:"group_id"`
	Name      string   `gorm:"not null" json:"name"`
	Slug      string   `gorm:"not null" json:"slug"`
	Price     int64    `gorm:"type:bigint;not null" json:"price"`
	Latitude  *float64 `json:"-"`
	Longitude *float64 `json:"-"`
	Group     Group    `gorm:"foreignKey:GroupID" json:"-"`
}

// TableName overrides the default table name.
func (Heading) TableName() string { return "budget_headings" }

// HasCoordinates reports whether the heading can be placed on a map.
func (h *Heading) HasCoordinates() bool {
	return h.Latitude != nil && h.Longitude != nil
}
