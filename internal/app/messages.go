// internal/app/messages.go
package app

import (
	"fmt"
	"strings"

	"silver_bullet_notifier/internal/domain/session"
)

// Message templates for the chat channel. HTML parse mode; zone labels come
// from the occurrence timestamps so a reconfigured display zone stays honest.

func sessionStartMessage(occ session.Occurrence) string {
	return fmt.Sprintf(
		"🔔 <b>Silver Bullet Trading Session Started</b> 🔔\n\n"+
			"<b>%s is now active!</b>\n\n"+
			"%s\n\n"+
			"Good luck with your trades!",
		occ.Name, sessionTimes(occ),
	)
}

func preSessionMessage(occ session.Occurrence, leadMinutes int) string {
	return fmt.Sprintf(
		"⏰ <b>Silver Bullet Trading Session Alert</b> ⏰\n\n"+
			"<b>%s starts in %d minutes!</b>\n\n"+
			"%s\n\n"+
			"Prepare your charts and get ready to trade!",
		occ.Name, leadMinutes, sessionTimes(occ),
	)
}

func startupMessage(upcoming []session.Occurrence) string {
	var b strings.Builder
	b.WriteString("🚀 <b>Silver Bullet Notification System Started</b> 🚀\n\n")
	b.WriteString("<b>Upcoming Trading Sessions")
	if len(upcoming) > 0 {
		fmt.Fprintf(&b, " (%s)", upcoming[0].StartDisplay.Format("MST"))
	}
	b.WriteString(":</b>\n")
	for _, occ := range upcoming {
		fmt.Fprintf(&b, "• %s: %s - %s\n",
			occ.Name,
			occ.StartDisplay.Format("2006-01-02 15:04"),
			occ.EndDisplay.Format("15:04"),
		)
	}
	return b.String()
}

func shutdownMessage() string {
	return "ℹ️ <b>Info:</b> Silver Bullet notification system scheduled restart. Service continues without interruption."
}

func errorMessage(cause error) string {
	return fmt.Sprintf("⚠️ <b>Error:</b> Silver Bullet notification system encountered an error: %v", cause)
}

// sessionTimes renders a session's window in both zones, labelled by each
// zone's abbreviation (e.g. EDT and MSK).
func sessionTimes(occ session.Occurrence) string {
	return fmt.Sprintf(
		"<b>Session Time (%s):</b> %s - %s\n"+
			"<b>Session Time (%s):</b> %s - %s",
		occ.StartReference.Format("MST"),
		occ.StartReference.Format("15:04"),
		occ.EndReference.Format("15:04"),
		occ.StartDisplay.Format("MST"),
		occ.StartDisplay.Format("15:04"),
		occ.EndDisplay.Format("15:04"),
	)
}
