// Package feed keeps a websocket connection to the live server and routes its
// messages into a Handler.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
	"golang.org/x/xerrors"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// Handler receives one change per feed message. Snapshots arrive with only
// modified set.
type Handler interface {
	ApplyChange(publicID string, modified, added, removed ordered.Object) error
}

// Options contains all the options needed to build a Service.
type Options struct {
	URL            string
	Auth           string
	PublicIDs      []string
	AllGamesAtOnce bool
	Handler        Handler

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer

	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// Service is the feed adapter.
type Service struct {
	opts Options
}

func NewService(opts Options) *Service {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.MinBackoff <= 0 {
		opts.MinBackoff = time.Second
	}
	if opts.MaxBackoff < opts.MinBackoff {
		opts.MaxBackoff = 30 * time.Second
		if opts.MaxBackoff < opts.MinBackoff {
			opts.MaxBackoff = opts.MinBackoff
		}
	}
	return &Service{opts: opts}
}

// Run connects and reconnects until ctx is cancelled. It always returns the
// context's error.
func (s *Service) Run(ctx context.Context) error {
	backoff := s.opts.MinBackoff
	for {
		healthy, err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if healthy {
			backoff = s.opts.MinBackoff
		}
		glog.Warningf("[feed] disconnected: %v, retrying in %s\n", err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > s.opts.MaxBackoff {
			backoff = s.opts.MaxBackoff
		}
	}
}

// session runs one connection. healthy reports whether the server accepted
// the authentication before the connection ended.
func (s *Service) session(ctx context.Context) (healthy bool, err error) {
	conn, _, err := s.opts.Dialer.DialContext(ctx, s.opts.URL, http.Header{})
	if err != nil {
		glog.Errorf("[feed] the connection failed: %v\n", err)
		return false, xerrors.Errorf("dial %s: %w", s.opts.URL, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	glog.Infof("[feed] connected, authenticating for %d games\n", len(s.opts.PublicIDs))
	if err := s.authenticate(conn); err != nil {
		return false, err
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return healthy, xerrors.Errorf("read: %w", err)
		}
		ok, err := s.handleFrame(data)
		if err != nil {
			glog.Warningf("[feed] %v\n", err)
		}
		healthy = healthy || ok
	}
}

func (s *Service) authenticate(conn *websocket.Conn) error {
	games := s.opts.PublicIDs
	if games == nil {
		games = []string{}
	}
	payload, err := json.Marshal(AuthPayload{Auth: s.opts.Auth, Games: games, AllGamesAtOnce: s.opts.AllGamesAtOnce})
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(Frame{Event: EventAuth, Data: payload}); err != nil {
		return xerrors.Errorf("send auth: %w", err)
	}
	return nil
}

// handleFrame routes one frame. ok is true for a successful status message.
func (s *Service) handleFrame(data []byte) (ok bool, err error) {
	if glog.V(2) {
		glog.Infof("[feed] frame %s\n", data)
	}

	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return false, xerrors.Errorf("decode frame: %w", err)
	}

	switch frame.Event {
	case EventStatus:
		var status StatusPayload
		if err := json.Unmarshal(frame.Data, &status); err != nil {
			return false, xerrors.Errorf("decode status: %w", err)
		}
		if status.Status == "success" {
			glog.Infof("[feed] connected and receiving data\n")
			return true, nil
		}
		glog.Warningf("[feed] status: %s\n", frame.Data)
		return false, nil

	case EventComplete, EventAlive:
		snapshot, err := ordered.DecodeObject(frame.Data)
		if err != nil {
			return false, xerrors.Errorf("decode %s: %w", frame.Event, err)
		}
		return false, s.applySnapshot(snapshot)

	case EventAllGamesAtOnce:
		var all AllGamesPayload
		if err := json.Unmarshal(frame.Data, &all); err != nil {
			return false, xerrors.Errorf("decode %s: %w", frame.Event, err)
		}
		var errs []error
		for _, snapshot := range all.Data {
			if err := s.applySnapshot(snapshot); err != nil {
				errs = append(errs, err)
			}
		}
		return false, errors.Join(errs...)

	case EventDelta:
		var delta DeltaPayload
		if err := json.Unmarshal(frame.Data, &delta); err != nil {
			return false, xerrors.Errorf("decode delta: %w", err)
		}
		if err := s.opts.Handler.ApplyChange(delta.PublicID, delta.Modified, delta.Added, delta.Removed); err != nil {
			return false, xerrors.Errorf("delta for %s: %w", delta.PublicID, err)
		}
		return false, nil
	}

	glog.V(1).Infof("[feed] ignoring %q\n", frame.Event)
	return false, nil
}

func (s *Service) applySnapshot(snapshot ordered.Object) error {
	v, _ := snapshot.Get("public_id")
	publicID, ok := v.(string)
	if !ok {
		return fmt.Errorf("snapshot without public_id")
	}
	if err := s.opts.Handler.ApplyChange(publicID, snapshot, nil, nil); err != nil {
		return xerrors.Errorf("snapshot for %s: %w", publicID, err)
	}
	return nil
}
