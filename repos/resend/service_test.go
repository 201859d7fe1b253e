package resend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultTemplate(t *testing.T) {
	mail := ResultMail{
		PublicID: "g1",
		TeamA:    "Berlin <Bluecaps>",
		ScoreA:   "130*",
		TeamB:    "Hippogriffs",
		ScoreB:   "90",
		Winner:   "A",
		Date:     "2024-05-11",
	}

	assert.Equal(t, "Result Berlin <Bluecaps> 130* - 90 Hippogriffs", resultSubject(mail))

	body := getResultTemplate(mail)
	assert.Contains(t, body, "<td>Berlin &lt;Bluecaps&gt;</td><td>130*</td>")
	assert.Contains(t, body, "<td>Hippogriffs</td><td>90</td>")
	assert.Contains(t, body, "Winner: A")
	assert.Contains(t, body, "Game g1, 2024-05-11")
}

func TestNoRecipientsSendsNothing(t *testing.T) {
	s := NewService("re_test", "results@example.com", nil)
	assert.NoError(t, s.SendResult(context.Background(), ResultMail{PublicID: "g1"}))
}
