package models

import "time"

// BallotLine records that a user chose an investment. Lines are hard-deleted
// so the (user, investment) unique index stays meaningful.
type BallotLine struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_ballot_line_user_investment;index:idx_ballot_line_user_budget" json:"user_id"`
	InvestmentID uint      `gorm:"not null;uniqueIndex:idx_ballot_line_user_investment;index" json:"investment_id"`
	BudgetID     uint      `gorm:"not null;index:idx_ballot_line_user_budget" json:"budget_id"`
	GroupID      uint      `gorm:"not null" json:"group_id"`
	HeadingID    uint      `gorm:"not null" json:"heading_id"`
	CreatedAt    time.Time `json:"created_at"`

	Investment Investment `gorm:"foreignKey:InvestmentID" json:"-"`
}

// BallotGroupChoice pins the heading a user votes in for one group. It exists
// exactly while the user holds at least one line in the group and is the row
// that serializes concurrent ballot writes for that (user, group).
type BallotGroupChoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ballot_choice_user_group" json:"user_id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_ballot_choice_user_group" json:"group_id"`
	HeadingID uint      `gorm:"not null" json:"heading_id"`
	CreatedAt time.Time `json:"created_at"`
}
