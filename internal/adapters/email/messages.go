package email

import (
	"fmt"
	"html"
)

// WelcomeEmail builds the greeting sent right after registration.
func WelcomeEmail(to, name string) SendRequest {
	safe := html.EscapeString(name)
	return SendRequest{
		To:      []string{to},
		Subject: "Willkommen im Saunaclub",
		HTML: fmt.Sprintf(
			"<h1>Hallo %s!</h1>"+
				"<p>Deine Anmeldung war erfolgreich. Im Mitgliederbereich findest du den "+
				"Aufgussplan, das schwarze Brett und die Festival-Planung.</p>"+
				"<p>Bis bald in der Sauna!</p>", safe),
	}
}

// FestivalAnnouncement builds one announcement mail per recipient for a newly
// created festival. Intended for SendBatch.
func FestivalAnnouncement(recipients []string, festivalName, dates string) []SendRequest {
	safeName := html.EscapeString(festivalName)
	safeDates := html.EscapeString(dates)
	reqs := make([]SendRequest, 0, len(recipients))
	for _, to := range recipients {
		reqs = append(reqs, SendRequest{
			To:      []string{to},
			Subject: fmt.Sprintf("Neues Festival: %s", festivalName),
			HTML: fmt.Sprintf(
				"<h1>%s</h1>"+
					"<p>Vom %s. Sag im Mitgliederbereich zu oder ab, bevor die "+
					"R&uuml;ckmeldefrist abl&auml;uft.</p>", safeName, safeDates),
		})
	}
	return reqs
}

// ShortNoticeCancellationAlert builds the notice sent to admins when an
// Aufguss is dropped less than a day before it starts.
func ShortNoticeCancellationAlert(to []string, masterName, location, sauna, date, tm string) SendRequest {
	return SendRequest{
		To:      to,
		Subject: "Kurzfristige Aufguss-Absage",
		HTML: fmt.Sprintf(
			"<p>%s hat den Aufguss am %s um %s abgesagt (%s, %s). "+
				"Der Termin ist wieder frei.</p>",
			html.EscapeString(masterName), html.EscapeString(date), html.EscapeString(tm),
			html.EscapeString(location), html.EscapeString(sauna)),
	}
}
