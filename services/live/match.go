package live

import (
	"strconv"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// GameClock tracks the game time as reported by the timekeeper. LastStop is the
// game time accumulated up to the last stop; LastStart is when the clock was
// last resumed.
type GameClock struct {
	LastStop  float64
	LastStart *float64
	Running   bool
}

// Match is the local replica of one live game. It is only mutated by the
// Reconciler; everything outside the package should read MatchView copies.
type Match struct {
	PublicID string

	Cancelled       bool
	CancelledReason string
	Suspended       bool
	SuspendedReason string
	DataAvailable   bool
	AliveTimestamp  *float64

	Clock GameClock

	GameOver         bool
	Winner           *string
	InOvertime       bool
	OvertimeSetScore *int
	Forfeit          *string
	Concede          *string

	teams  [2]*Team
	events [numEventKinds]*EventList
}

// NewMatch creates an empty replica for publicID.
func NewMatch(publicID string) *Match {
	m := &Match{PublicID: publicID}
	for i, side := range Sides {
		m.teams[i] = newTeam(side)
	}
	for _, k := range EventKinds {
		m.events[k] = newEventList(k)
	}
	return m
}

// Team returns the team playing on side.
func (m *Match) Team(side Side) *Team {
	return m.teams[side.index()]
}

// Events returns the collection for kind.
func (m *Match) Events(kind EventKind) *EventList {
	return m.events[kind]
}

// setReason handles *_reason keys: a reason string raises the flag, a falsy
// value clears it.
func setReason(flag *bool, reason *string, v any) {
	switch t := v.(type) {
	case string:
		*flag = t != ""
		*reason = t
	default:
		*flag = toBool(v)
		*reason = ""
	}
}

func (m *Match) applyClockChange(data ordered.Object) {
	if v, ok := data.Get("last_stop"); ok {
		m.Clock.LastStop = floatOrZero(v)
	}
	if v, ok := data.Get("last_start"); ok {
		m.Clock.LastStart = optFloat(v)
	}
	if v, ok := data.Get("running"); ok {
		m.Clock.Running = toBool(v)
	}
}

// Team is one side of a match.
type Team struct {
	Side                 Side
	Name                 string
	ShortName            string
	Logo                 string
	ID                   *int
	Jersey               string
	JerseyPrimaryColor   string
	JerseySecondaryColor string
	JerseyTextColor      string

	QuaffelPointsRegular  int
	QuaffelPointsOvertime int
	QuaffelPointsConcede  int
	SnitchCaught          bool
	SnitchPoints          int
	PointsTotal           int
	ScoreStr              string
}

func newTeam(side Side) *Team {
	return &Team{
		Side:                 side,
		Logo:                 "default.svg",
		Jersey:               "jersey_ffffff",
		JerseyPrimaryColor:   "#FFFFFF",
		JerseySecondaryColor: "#FFFFFF",
		JerseyTextColor:      "#000000",
		ScoreStr:             "0",
	}
}

func (t *Team) applyTeamChange(data ordered.Object) {
	for _, f := range data {
		switch f.Key {
		case "name":
			t.Name = stringOr(f.Value, "")
		case "shortname":
			t.ShortName = stringOr(f.Value, "")
		case "logo":
			t.Logo = stringOr(f.Value, "")
		case "id":
			t.ID = optInt(f.Value)
		case "jersey":
			t.Jersey = stringOr(f.Value, "")
		case "jersey_primary_color":
			t.JerseyPrimaryColor = stringOr(f.Value, "")
		case "jersey_secondary_color":
			t.JerseySecondaryColor = stringOr(f.Value, "")
		case "jersey_text_color":
			t.JerseyTextColor = stringOr(f.Value, "")
		}
	}
}

// applyScoreChange updates the score fields. snitch_caught and total always
// queue a notification, and a trailing score notification carrying the
// display string is queued once the whole map is processed.
func (t *Team) applyScoreChange(data ordered.Object, queue func(Notification)) {
	for _, f := range data {
		switch f.Key {
		case "quaffel_points":
			if qp, ok := f.Value.(ordered.Object); ok {
				if v, ok := qp.Get("regular"); ok {
					t.QuaffelPointsRegular = intOrZero(v)
				}
				if v, ok := qp.Get("overtime"); ok {
					t.QuaffelPointsOvertime = intOrZero(v)
				}
				if v, ok := qp.Get("concede"); ok {
					t.QuaffelPointsConcede = intOrZero(v)
				}
			}
		case "snitch_caught":
			t.SnitchCaught = toBool(f.Value)
			queue(Notification{Kind: NotifySnitchCaught, Side: t.Side, Value: t.SnitchCaught})
		case "snitch_points":
			t.SnitchPoints = intOrZero(f.Value)
		case "total":
			t.PointsTotal = intOrZero(f.Value)
			queue(Notification{Kind: NotifyScoreChanged, Side: t.Side, Value: t.PointsTotal})
		}
		t.updateScoreStr()
	}
	queue(Notification{Kind: NotifyScore, Side: t.Side, Value: t.ScoreStr})
}

func (t *Team) updateScoreStr() {
	t.ScoreStr = strconv.Itoa(t.PointsTotal)
	if t.SnitchPoints != 0 {
		t.ScoreStr += "*"
	}
}
