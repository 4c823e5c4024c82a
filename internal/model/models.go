// Package model defines the data models for the idol guessing bot.
package model

import "time"

// Player represents a participant on the guessing leaderboard.
type Player struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	Points    int64     `db:"points"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PointEvent records one points change for auditability.
type PointEvent struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Amount    int64     `db:"amount"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

// Point event reasons for categorizing changes.
const (
	ReasonWin      = "win"       // Correct guess
	ReasonStarter  = "starter"   // Coordinator cut on someone else's win
	ReasonAdminAdd = "admin_add" // Admin added points
	ReasonAdminSub = "admin_sub" // Admin subtracted points
)
