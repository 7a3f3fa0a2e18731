package brief

import (
	"fmt"
	"html"
	"strings"

	"github.com/kasionely/korner-integrations-service/model"
)

const (
	reportTitle     = "📋 Новый бриф: Korner × Qamalladin Media"
	reportSeparator = "━━━━━━━━━━━━━━━━━━━━"

	// MissingAnswer stands in for an answer slot that was never filled.
	MissingAnswer = "—"
)

// FormatBrief renders a completed session as the HTML report sent to the team.
func FormatBrief(c *Catalog, s *model.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", reportTitle)
	fmt.Fprintf(&b, "<b>От:</b> %s\n", html.EscapeString(s.DisplayName))
	fmt.Fprintf(&b, "%s\n\n", reportSeparator)

	for i := 0; i < c.Len(); i++ {
		q, _ := c.At(i)
		answer, ok := s.Answer(i)
		if !ok || answer == "" {
			answer = MissingAnswer
		} else {
			answer = html.EscapeString(answer)
		}
		fmt.Fprintf(&b, "<b>%d. %s</b>\n%s\n\n", q.ID, html.EscapeString(q.Text), answer)
	}

	return b.String()
}
