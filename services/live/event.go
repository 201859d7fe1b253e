package live

import (
	"strconv"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// Event is one timeline entry. Its identity is its position in the owning
// collection; every field is optional and nil means "never set".
type Event struct {
	Kind         EventKind `json:"kind"`
	Period       *int      `json:"period"`
	GameTime     *int      `json:"gametime"`
	Team         *string   `json:"team"`
	PlayerNumber *string   `json:"player_number"`
	PlayerName   *string   `json:"player_name"`
	Color        *string   `json:"color"`
	Increment    *int      `json:"increment"`
	Reason       *string   `json:"reason"`
}

func newEvent(kind EventKind, data ordered.Object) *Event {
	e := &Event{Kind: kind}
	e.apply(data)
	return e
}

// apply overwrites the recognised fields present in data.
func (e *Event) apply(data ordered.Object) {
	for _, f := range data {
		switch f.Key {
		case "period":
			e.Period = optInt(f.Value)
		case "gametime":
			e.GameTime = optInt(f.Value)
		case "team":
			e.Team = optString(f.Value)
		case "player_number":
			e.PlayerNumber = optString(f.Value)
		case "player_name":
			e.PlayerName = optString(f.Value)
		case "color":
			e.Color = optString(f.Value)
		case "increment":
			e.Increment = optInt(f.Value)
		case "reason":
			e.Reason = optString(f.Value)
		}
	}
}

// Fields returns the event's values in audit column order:
// period, gametime, team, player number, player name, increment, color, reason.
func (e Event) Fields() []string {
	return []string{
		fmtInt(e.Period),
		fmtInt(e.GameTime),
		fmtString(e.Team),
		fmtString(e.PlayerNumber),
		fmtString(e.PlayerName),
		fmtInt(e.Increment),
		fmtString(e.Color),
		fmtString(e.Reason),
	}
}

func (e Event) clone() Event {
	c := e
	c.Period = cloneInt(e.Period)
	c.GameTime = cloneInt(e.GameTime)
	c.Team = cloneString(e.Team)
	c.PlayerNumber = cloneString(e.PlayerNumber)
	c.PlayerName = cloneString(e.PlayerName)
	c.Color = cloneString(e.Color)
	c.Increment = cloneInt(e.Increment)
	c.Reason = cloneString(e.Reason)
	return c
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
