// Package auditlog writes the per-match audit trail: a state log with one row
// per reconciliation pass and an event log with one row per event mutation.
// Both are comma separated text files that are only ever appended to.
package auditlog

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/xerrors"

	timehelper "github.com/nvbf/quadball-live-sync/pkg/timeHelper"
	"github.com/nvbf/quadball-live-sync/services/live"
)

const (
	stateHeader = "Time,PublicId,DataAvailable,AliveTimestamp,Cancelled,Suspended,GT Last Stop,GT Last Start," +
		"GT Running,in overtime,OT Set Score,GameOver,Winner,Forfeit,Concede," +
		"NameA,IdA,QP Regular A,QP OT A,QP Concede A,SnitchCaughtA,SnitchPointsA,PointsTotalA," +
		"NameB,IdB,QP Regular B,QP OT B,QP Concede B,SnitchCaughtB,SnitchPointsB,PointsTotalB"

	eventHeader = "Time,What,Type,Index,Period,Gametime,Team,P-Number,P-Name,Increment,Color,Reason"
)

// stripper removes everything that would break a row apart.
var stripper = strings.NewReplacer(",", "", "\n", "", "\r", "")

// Service appends audit rows below a directory:
// <dir>/<public_id>.csv and <dir>/<public_id>_events.csv.
type Service struct {
	dir string
	mu  sync.Mutex
}

// NewService creates the log directory if needed.
func NewService(dir string) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, xerrors.Errorf("create audit log dir %s: %w", dir, err)
	}
	return &Service{dir: dir}, nil
}

// StatePath returns the state log file of publicID.
func (s *Service) StatePath(publicID string) string {
	return filepath.Join(s.dir, fileName(publicID)+".csv")
}

// EventPath returns the event log file of publicID.
func (s *Service) EventPath(publicID string) string {
	return filepath.Join(s.dir, fileName(publicID)+"_events.csv")
}

// LogState appends the flattened match and both teams.
func (s *Service) LogState(at time.Time, m live.MatchView) error {
	row := []string{
		timehelper.FormatLogTime(at),
		m.PublicID,
		fmtBool(m.DataAvailable),
		fmtFloatPtr(m.AliveTimestamp),
		fmtBool(m.Cancelled),
		fmtBool(m.Suspended),
		fmtFloat(m.Clock.LastStop),
		fmtFloatPtr(m.Clock.LastStart),
		fmtBool(m.Clock.Running),
		fmtBool(m.InOvertime),
		fmtIntPtr(m.OvertimeSetScore),
		fmtBool(m.GameOver),
		fmtStringPtr(m.Winner),
		fmtStringPtr(m.Forfeit),
		fmtStringPtr(m.Concede),
	}
	for _, side := range live.Sides {
		t := m.Team(side)
		row = append(row,
			t.Name,
			fmtIntPtr(t.ID),
			strconv.Itoa(t.QuaffelPointsRegular),
			strconv.Itoa(t.QuaffelPointsOvertime),
			strconv.Itoa(t.QuaffelPointsConcede),
			fmtBool(t.SnitchCaught),
			strconv.Itoa(t.SnitchPoints),
			strconv.Itoa(t.PointsTotal),
		)
	}
	return s.appendRow(s.StatePath(m.PublicID), stateHeader, row)
}

// LogEvent appends one event mutation.
func (s *Service) LogEvent(at time.Time, rec live.EventRecord) error {
	row := []string{
		timehelper.FormatLogTime(at),
		string(rec.Op),
		rec.Kind.String(),
		strconv.Itoa(rec.Index),
	}
	row = append(row, rec.Event.Fields()...)
	return s.appendRow(s.EventPath(rec.PublicID), eventHeader, row)
}

// appendRow writes the header first when the file is new or empty. Existing
// content is never truncated.
func (s *Service) appendRow(path, header string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return xerrors.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return xerrors.Errorf("stat %s: %w", path, err)
	}

	var b strings.Builder
	if info.Size() == 0 {
		b.WriteString(header)
		b.WriteByte('\n')
	}
	for i, v := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(stripper.Replace(v))
	}
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		return xerrors.Errorf("write %s: %w", path, err)
	}
	return nil
}

func fileName(publicID string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, publicID)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func fmtBool(v bool) string {
	return strconv.FormatBool(v)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmtFloat(*v)
}

func fmtIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
