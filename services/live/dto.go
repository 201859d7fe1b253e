package live

import "time"

// MatchView is an immutable copy of a replica taken after a reconciliation
// pass. It is what subscribers, the audit log and HTTP readers see.
type MatchView struct {
	PublicID         string      `json:"public_id"`
	Cancelled        bool        `json:"cancelled"`
	CancelledReason  string      `json:"cancelled_reason,omitempty"`
	Suspended        bool        `json:"suspended"`
	SuspendedReason  string      `json:"suspended_reason,omitempty"`
	DataAvailable    bool        `json:"data_available"`
	AliveTimestamp   *float64    `json:"alive_timestamp"`
	Clock            ClockView   `json:"gametime"`
	GameOver         bool        `json:"game_over"`
	Winner           *string     `json:"winner"`
	InOvertime       bool        `json:"in_overtime"`
	OvertimeSetScore *int        `json:"overtime_setscore"`
	Forfeit          *string     `json:"forfeit"`
	Concede          *string     `json:"concede"`
	Teams            [2]TeamView `json:"teams"`
	Events           EventsView  `json:"events"`
}

// Team returns the view of the team playing on side.
func (v MatchView) Team(side Side) TeamView {
	return v.Teams[side.index()]
}

// ClockView is the game clock of a MatchView.
type ClockView struct {
	LastStop  float64  `json:"last_stop"`
	LastStart *float64 `json:"last_start"`
	Running   bool     `json:"running"`
}

// Elapsed returns the game time in seconds at now.
func (c ClockView) Elapsed(now time.Time) float64 {
	if !c.Running || c.LastStart == nil {
		return c.LastStop
	}
	started := *c.LastStart
	current := float64(now.UnixNano()) / float64(time.Second)
	if current < started {
		return c.LastStop
	}
	return c.LastStop + current - started
}

// TeamView is the team part of a MatchView.
type TeamView struct {
	Side                  Side   `json:"side"`
	Name                  string `json:"name"`
	ShortName             string `json:"shortname"`
	Logo                  string `json:"logo"`
	ID                    *int   `json:"id"`
	Jersey                string `json:"jersey"`
	JerseyPrimaryColor    string `json:"jersey_primary_color"`
	JerseySecondaryColor  string `json:"jersey_secondary_color"`
	JerseyTextColor       string `json:"jersey_text_color"`
	QuaffelPointsRegular  int    `json:"quaffel_points_regular"`
	QuaffelPointsOvertime int    `json:"quaffel_points_overtime"`
	QuaffelPointsConcede  int    `json:"quaffel_points_concede"`
	SnitchCaught          bool   `json:"snitch_caught"`
	SnitchPoints          int    `json:"snitch_points"`
	PointsTotal           int    `json:"points_total"`
	ScoreStr              string `json:"score"`
}

// EventsView holds copies of the five collections.
type EventsView struct {
	Score             []Event `json:"score"`
	Timeout           []Event `json:"timeout"`
	Snitch            []Event `json:"snitch"`
	SnitchUnderReview []Event `json:"snitch_under_review"`
	Penalty           []Event `json:"penalty"`
}

// Of returns the collection copy for kind.
func (e EventsView) Of(kind EventKind) []Event {
	switch kind {
	case EventScore:
		return e.Score
	case EventTimeout:
		return e.Timeout
	case EventSnitch:
		return e.Snitch
	case EventSnitchUnderReview:
		return e.SnitchUnderReview
	case EventPenalty:
		return e.Penalty
	}
	return nil
}

// View copies the replica.
func (m *Match) View() MatchView {
	v := MatchView{
		PublicID:        m.PublicID,
		Cancelled:       m.Cancelled,
		CancelledReason: m.CancelledReason,
		Suspended:       m.Suspended,
		SuspendedReason: m.SuspendedReason,
		DataAvailable:   m.DataAvailable,
		AliveTimestamp:  cloneFloat(m.AliveTimestamp),
		Clock: ClockView{
			LastStop:  m.Clock.LastStop,
			LastStart: cloneFloat(m.Clock.LastStart),
			Running:   m.Clock.Running,
		},
		GameOver:         m.GameOver,
		Winner:           cloneString(m.Winner),
		InOvertime:       m.InOvertime,
		OvertimeSetScore: cloneInt(m.OvertimeSetScore),
		Forfeit:          cloneString(m.Forfeit),
		Concede:          cloneString(m.Concede),
		Events: EventsView{
			Score:             m.events[EventScore].Snapshot(),
			Timeout:           m.events[EventTimeout].Snapshot(),
			Snitch:            m.events[EventSnitch].Snapshot(),
			SnitchUnderReview: m.events[EventSnitchUnderReview].Snapshot(),
			Penalty:           m.events[EventPenalty].Snapshot(),
		},
	}
	for i, t := range m.teams {
		v.Teams[i] = TeamView{
			Side:                  t.Side,
			Name:                  t.Name,
			ShortName:             t.ShortName,
			Logo:                  t.Logo,
			ID:                    cloneInt(t.ID),
			Jersey:                t.Jersey,
			JerseyPrimaryColor:    t.JerseyPrimaryColor,
			JerseySecondaryColor:  t.JerseySecondaryColor,
			JerseyTextColor:       t.JerseyTextColor,
			QuaffelPointsRegular:  t.QuaffelPointsRegular,
			QuaffelPointsOvertime: t.QuaffelPointsOvertime,
			QuaffelPointsConcede:  t.QuaffelPointsConcede,
			SnitchCaught:          t.SnitchCaught,
			SnitchPoints:          t.SnitchPoints,
			PointsTotal:           t.PointsTotal,
			ScoreStr:              t.ScoreStr,
		}
	}
	return v
}
