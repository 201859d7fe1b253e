package results

import "time"

// Result is the confirmed final result of one game.
type Result struct {
	PublicID     string     `firestore:"publicId" json:"public_id"`
	TournamentID string     `firestore:"tournamentId,omitempty" json:"tournament_id,omitempty"`
	TeamA        TeamResult `firestore:"teamA" json:"team_a"`
	TeamB        TeamResult `firestore:"teamB" json:"team_b"`
	Winner       string     `firestore:"winner,omitempty" json:"winner,omitempty"`
	Forfeit      string     `firestore:"forfeit,omitempty" json:"forfeit,omitempty"`
	Concede      string     `firestore:"concede,omitempty" json:"concede,omitempty"`
	InOvertime   bool       `firestore:"inOvertime" json:"in_overtime"`
	LastSeen     *time.Time `firestore:"lastSeen,omitempty" json:"last_seen,omitempty"`
	ReportedBy   string     `firestore:"reportedBy" json:"reported_by"`
	ReportedAt   time.Time  `firestore:"reportedAt" json:"reported_at"`
}

type TeamResult struct {
	Name         string `firestore:"name" json:"name"`
	ID           *int   `firestore:"id,omitempty" json:"id,omitempty"`
	Points       int    `firestore:"points" json:"points"`
	Score        string `firestore:"score" json:"score"`
	SnitchCaught bool   `firestore:"snitchCaught" json:"snitch_caught"`
}
