package models

// User is the identity collaborator's view of a participant. OfficialLevel is
// zero for citizens and 1..5 for public officials.
type User struct {
	Base
	Username      string `gorm:"uniqueIndex;not null" json:"username"`
	OfficialLevel int    `gorm:"not null;default:0" json:"official_level"`
}
