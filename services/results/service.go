package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"golang.org/x/xerrors"

	timehelper "github.com/nvbf/quadball-live-sync/pkg/timeHelper"
	resend "github.com/nvbf/quadball-live-sync/repos/resend"
	resultsrepo "github.com/nvbf/quadball-live-sync/repos/results"
	"github.com/nvbf/quadball-live-sync/services/live"
)

// AutoReporter is the name results reported on game over are stored under.
const AutoReporter = "auto"

var ErrGameNotOver = errors.New("game is not over")

// Views gives access to the latest replica views.
type Views interface {
	View(publicID string) (live.MatchView, bool)
}

// Store persists results. Create must fail with
// resultsrepo.ErrAlreadyRegistered for a game that already has one and Get
// with resultsrepo.ErrNotFound for a game without one.
type Store interface {
	Create(ctx context.Context, r resultsrepo.Result) error
	Get(ctx context.Context, publicID string) (*resultsrepo.Result, error)
}

type Mailer interface {
	SendResult(ctx context.Context, mail resend.ResultMail) error
}

// ServiceOptions contains all the options needed to build a ResultsService.
type ServiceOptions struct {
	Views Views
	Store Store

	// Mailer is optional.
	Mailer Mailer

	TournamentID string

	// Now stamps reports. Defaults to time.Now.
	Now func() time.Time
}

type ResultsService struct {
	opts ServiceOptions
}

func NewResultsService(opts ServiceOptions) *ResultsService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ResultsService{opts: opts}
}

// GetResult returns the registered result of a game.
func (s *ResultsService) GetResult(ctx context.Context, publicID string) (*resultsrepo.Result, error) {
	return s.opts.Store.Get(ctx, publicID)
}

// ReportResult stores the final result of a finished game and mails it.
func (s *ResultsService) ReportResult(ctx context.Context, publicID, reportedBy string) (*resultsrepo.Result, error) {
	view, ok := s.opts.Views.View(publicID)
	if !ok {
		return nil, xerrors.Errorf("%s: %w", publicID, live.ErrUnknownMatch)
	}
	return s.report(ctx, view, reportedBy)
}

func (s *ResultsService) report(ctx context.Context, view live.MatchView, reportedBy string) (*resultsrepo.Result, error) {
	publicID := view.PublicID
	if !view.GameOver {
		return nil, xerrors.Errorf("%s: %w", publicID, ErrGameNotOver)
	}

	result := s.buildResult(view, reportedBy)
	if err := s.opts.Store.Create(ctx, result); err != nil {
		return nil, err
	}
	glog.Infof("[results] %s registered %s %d - %d %s\n", publicID,
		result.TeamA.Name, result.TeamA.Points, result.TeamB.Points, result.TeamB.Name)

	if s.opts.Mailer != nil {
		if err := s.opts.Mailer.SendResult(ctx, resultMail(result)); err != nil {
			glog.Errorf("[results] %v\n", err)
		}
	}
	return &result, nil
}

// Watch reports every game that reaches game over. Reports run on d, never
// inside the reconciliation pass, and use the view the notification carries.
func (s *ResultsService) Watch(l Listener, d *live.Dispatcher) string {
	return l.Listen(live.NotifyGameOver, d.Wrap(func(n live.Notification) {
		if over, _ := n.Value.(bool); !over || n.Match == nil {
			return
		}
		_, err := s.report(context.Background(), *n.Match, AutoReporter)
		switch {
		case err == nil:
		case errors.Is(err, resultsrepo.ErrAlreadyRegistered):
			glog.Infof("[results] %s already registered\n", n.Match.PublicID)
		default:
			glog.Errorf("[results] auto report of %s: %v\n", n.Match.PublicID, err)
		}
	}))
}

// Listener subscribes to notifications.
type Listener interface {
	Listen(kind live.NotificationKind, h live.Handler) string
}

func (s *ResultsService) buildResult(view live.MatchView, reportedBy string) resultsrepo.Result {
	r := resultsrepo.Result{
		PublicID:     view.PublicID,
		TournamentID: s.opts.TournamentID,
		TeamA:        teamResult(view.Team(live.SideA)),
		TeamB:        teamResult(view.Team(live.SideB)),
		InOvertime:   view.InOvertime,
		ReportedBy:   reportedBy,
		ReportedAt:   s.opts.Now(),
	}
	if view.Winner != nil {
		r.Winner = *view.Winner
	}
	if view.Forfeit != nil {
		r.Forfeit = *view.Forfeit
	}
	if view.Concede != nil {
		r.Concede = *view.Concede
	}
	if view.AliveTimestamp != nil {
		seen := timehelper.FromUnixSeconds(*view.AliveTimestamp)
		r.LastSeen = &seen
	}
	return r
}

func teamResult(t live.TeamView) resultsrepo.TeamResult {
	return resultsrepo.TeamResult{
		Name:         t.Name,
		ID:           t.ID,
		Points:       t.PointsTotal,
		Score:        t.ScoreStr,
		SnitchCaught: t.SnitchCaught,
	}
}

func resultMail(r resultsrepo.Result) resend.ResultMail {
	winner := r.Winner
	switch r.Winner {
	case string(live.SideA):
		winner = fmt.Sprintf("%s (A)", r.TeamA.Name)
	case string(live.SideB):
		winner = fmt.Sprintf("%s (B)", r.TeamB.Name)
	}
	return resend.ResultMail{
		PublicID:     r.PublicID,
		TournamentID: r.TournamentID,
		TeamA:        r.TeamA.Name,
		ScoreA:       r.TeamA.Score,
		TeamB:        r.TeamB.Name,
		ScoreB:       r.TeamB.Score,
		Winner:       winner,
		Date:         r.ReportedAt.Format("2006-01-02"),
	}
}
