package resend

import (
	"context"
	"fmt"
	"html"

	"github.com/golang/glog"
	resend "github.com/resend/resend-go/v2"
	"golang.org/x/xerrors"
)

type Service struct {
	resendClient *resend.Client
	from         string
	to           []string
}

func NewService(resendKey, from string, to []string) *Service {
	return &Service{
		resendClient: resend.NewClient(resendKey),
		from:         from,
		to:           to,
	}
}

func (s *Service) SendResult(ctx context.Context, mail ResultMail) error {
	if len(s.to) == 0 {
		return nil
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.to,
		Subject: resultSubject(mail),
		Html:    getResultTemplate(mail),
	}

	sent, err := s.resendClient.Emails.SendWithContext(ctx, params)
	if err != nil {
		return xerrors.Errorf("send result mail for %s: %w", mail.PublicID, err)
	}
	glog.Infof("[results] mail %s sent for %s\n", sent.Id, mail.PublicID)
	return nil
}

func resultSubject(mail ResultMail) string {
	return fmt.Sprintf("Result %s %s - %s %s", mail.TeamA, mail.ScoreA, mail.ScoreB, mail.TeamB)
}

func getResultTemplate(mail ResultMail) string {
	winner := mail.Winner
	if winner == "" {
		winner = "-"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            margin: 0;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        td {
            padding: 4px 12px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h2>Final result</h2>
        <table>
            <tr><td>%s</td><td>%s</td></tr>
            <tr><td>%s</td><td>%s</td></tr>
        </table>
        <p>Winner: %s</p>
        <p>Game %s, %s</p>
    </div>
</body>
</html>`,
		html.EscapeString(mail.TeamA), html.EscapeString(mail.ScoreA),
		html.EscapeString(mail.TeamB), html.EscapeString(mail.ScoreB),
		html.EscapeString(winner),
		html.EscapeString(mail.PublicID), html.EscapeString(mail.Date))
}
