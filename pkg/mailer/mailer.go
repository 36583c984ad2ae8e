package mailer

import (
	"fmt"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends outbound email for the share-a-memorial flow
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewMailer creates a Mailer from SMTP settings. Port falls back to 587 when
// unparseable.
func NewMailer(host, port, user, pass, from string) *Mailer {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &Mailer{host: host, port: p, user: user, pass: pass, from: from}
}

// SendMemorialShare emails a memorial link to a recipient with an optional
// personal message from the sender
func (m *Mailer) SendMemorialShare(to, senderName, memorialTitle, memorialURL, personalMessage string) error {
	if m.host == "" {
		return fmt.Errorf("mailer not configured")
	}

	body := fmt.Sprintf("%s shared the memorial %q with you:\r\n\r\n%s\r\n", senderName, memorialTitle, memorialURL)
	if personalMessage != "" {
		body += "\r\n" + personalMessage + "\r\n"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s shared a memorial with you", senderName))
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	return d.DialAndSend(msg)
}
