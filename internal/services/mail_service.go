package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	textTemplate "text/template"
	"time"

	"aitravel/internal/config"
)

type IMailService interface {
	// Enabled is false when SMTP is not configured; sends are then no-ops.
	Enabled() bool
	SendBookingConfirmation(to string, data BookingEmail) error
}

// BookingEmail is everything the confirmation mail shows.
type BookingEmail struct {
	TravellerName    string
	TripTitle        string
	Destination      string
	Dates            string
	Travelers        int
	Amount           string
	PaymentMethod    string
	ConfirmationCode string
	TripURL          string
}

type smtpMailService struct {
	cfg        config.SMTPConfig
	appName    string
	appBaseURL string
	htmlTpl    *template.Template
	textTpl    *textTemplate.Template

	// deliver is swapped in tests.
	deliver func(to string, msg []byte) error
}

func NewSMTPMailService(cfg config.SMTPConfig, appName, appBaseURL string) IMailService {
	s := &smtpMailService{
		cfg:        cfg,
		appName:    appName,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		htmlTpl:    template.Must(template.New("bookingHTML").Parse(bookingHTMLTemplate)),
		textTpl:    textTemplate.Must(textTemplate.New("bookingText").Parse(bookingTextTemplate)),
	}
	s.deliver = s.send
	return s
}

func (s *smtpMailService) Enabled() bool {
	return s.cfg.Enabled()
}

func (s *smtpMailService) SendBookingConfirmation(to string, data BookingEmail) error {
	if !s.Enabled() {
		return nil
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("booking confirmation: empty recipient")
	}

	subject := fmt.Sprintf("Booking confirmed: %s (%s)", data.TripTitle, data.ConfirmationCode)
	html, text, err := s.renderBooking(subject, data)
	if err != nil {
		return err
	}
	msg := s.buildMessage(to, subject, html, text, time.Now())
	return s.deliver(to, msg)
}

type bookingView struct {
	BookingEmail
	Subject string
	AppName string
	Year    int
}

const bookingHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Subject}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f1f5f9; color: #0f172a; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 32px 12px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 14px; overflow: hidden; box-shadow: 0 12px 40px rgba(0, 0, 0, 0.08); }
    .header { padding: 24px 28px; background: #0ea5e9; color: #ffffff; font-weight: 700; font-size: 20px; letter-spacing: 0.4px; }
    .hero { padding: 28px; }
    h1 { margin: 0 0 12px; font-size: 24px; }
    p { margin: 0 0 16px; line-height: 1.6; color: #475569; }
    .code { display: inline-block; padding: 8px 14px; border-radius: 8px; background: #e0f2fe; color: #0369a1; font-weight: 700; letter-spacing: 1px; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    td { padding: 10px 0; border-bottom: 1px solid #e2e8f0; font-size: 15px; }
    td.label { color: #64748b; width: 40%; }
    .btn { display: inline-block; padding: 14px 26px; background: #0284c7; color: #ffffff !important; text-decoration: none; border-radius: 10px; font-weight: 600; }
    .footer { padding: 20px 28px; color: #94a3b8; font-size: 12px; text-align: center; background: #f8fafc; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header">{{.AppName}}</div>
      <div class="hero">
        <h1>Your trip is booked{{if .TravellerName}}, {{.TravellerName}}{{end}}!</h1>
        <p>Confirmation code</p>
        <p><span class="code">{{.ConfirmationCode}}</span></p>
        <table>
          <tr><td class="label">Trip</td><td>{{.TripTitle}}</td></tr>
          <tr><td class="label">Destination</td><td>{{.Destination}}</td></tr>
          {{if .Dates}}<tr><td class="label">Dates</td><td>{{.Dates}}</td></tr>{{end}}
          <tr><td class="label">Travelers</td><td>{{.Travelers}}</td></tr>
          <tr><td class="label">Total charged</td><td>{{.Amount}}</td></tr>
          <tr><td class="label">Paid with</td><td>{{.PaymentMethod}}</td></tr>
        </table>
        {{if .TripURL}}<p><a class="btn" href="{{.TripURL}}">View itinerary</a></p>{{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}. This is a demo booking and no real payment was taken.</div>
    </div>
  </div>
</body>
</html>`

const bookingTextTemplate = `{{.Subject}}

Confirmation code: {{.ConfirmationCode}}

Trip:          {{.TripTitle}}
Destination:   {{.Destination}}
{{if .Dates}}Dates:         {{.Dates}}
{{end}}Travelers:     {{.Travelers}}
Total charged: {{.Amount}}
Paid with:     {{.PaymentMethod}}
{{if .TripURL}}
View itinerary: {{.TripURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderBooking(subject string, data BookingEmail) (html string, text string, err error) {
	view := bookingView{
		BookingEmail: data,
		Subject:      subject,
		AppName:      s.appName,
		Year:         time.Now().Year(),
	}

	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, view); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, view); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(to string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// implicit TLS, usually port 465
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}
