package feed

import (
	"encoding/json"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// Message names sent by the live server.
const (
	EventAuth           = "auth"
	EventStatus         = "status"
	EventComplete       = "complete"
	EventAlive          = "alive"
	EventDelta          = "delta"
	EventAllGamesAtOnce = "all games at once"
)

// Frame is one websocket text frame in either direction.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type AuthPayload struct {
	Auth           string   `json:"auth"`
	Games          []string `json:"games"`
	AllGamesAtOnce bool     `json:"all_games_at_once,omitempty"`
}

type StatusPayload struct {
	Status string `json:"status"`
}

type DeltaPayload struct {
	PublicID string         `json:"public_id"`
	Modified ordered.Object `json:"modified"`
	Added    ordered.Object `json:"added"`
	Removed  ordered.Object `json:"removed"`
}

type AllGamesPayload struct {
	Data []ordered.Object `json:"data"`
}
