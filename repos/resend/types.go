package resend

// ResultMail is the content of a result confirmation mail.
type ResultMail struct {
	PublicID     string
	TournamentID string
	TeamA        string
	ScoreA       string
	TeamB        string
	ScoreB       string
	Winner       string
	Date         string
}
