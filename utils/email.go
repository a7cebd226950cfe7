package utils

import (
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"meeting-room-backend/models"
)

// SendReservationConfirmation emails the booking summary with the calendar
// invite attached. When SMTP is not configured the message is logged instead,
// so local development works without a mail server.
func SendReservationConfirmation(recipient, recipientName, roomName string, reservations []models.Reservation, invite []byte) error {
	smtpHost := EnvOrDefault("SMTP_HOST", "")
	smtpPort := EnvOrDefault("SMTP_PORT", "587")
	smtpUser := EnvOrDefault("SMTP_USERNAME", "")
	smtpPass := EnvOrDefault("SMTP_PASSWORD", "")
	fromName := EnvOrDefault("SMTP_FROM_NAME", "Meeting Rooms")

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		log.Printf("[MOCK EMAIL] confirmation to:%s room:%s reservations:%d", recipient, roomName, len(reservations))
		return nil
	}

	subject := fmt.Sprintf("Reservation confirmed: %s", roomName)
	if len(reservations) > 1 {
		subject = fmt.Sprintf("Reservation series confirmed: %s (%d occurrences)", roomName, len(reservations))
	}

	var lines strings.Builder
	fmt.Fprintf(&lines, "Hi %s,\r\n\r\nYour booking for %s is confirmed.\r\n\r\n", safeHeader(recipientName), roomName)
	for _, r := range reservations {
		fmt.Fprintf(&lines, "  %s  %s - %s  (ref %s)\r\n",
			r.StartTime.Format("Mon 2 Jan 2006"),
			r.StartTime.Format("15:04"),
			r.EndTime.Format(time.Kitchen),
			r.ReferenceCode)
	}
	lines.WriteString("\r\nThe attached invite can be imported into your calendar.\r\n")

	boundary := "----=_RESERVATION_EMAIL_BOUNDARY"
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", safeHeader(fromName), smtpUser)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", safeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(lines.String())
	msg.WriteString("\r\n")

	if len(invite) > 0 {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: text/calendar; method=REQUEST; charset=\"utf-8\"\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString("Content-Disposition: attachment; filename=\"invite.ics\"\r\n\r\n")
		msg.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(invite)))
		msg.WriteString("\r\n")
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)
	if err := smtp.SendMail(addr, auth, smtpUser, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

func safeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

func wrapBase64(s string) string {
	const width = 76
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
