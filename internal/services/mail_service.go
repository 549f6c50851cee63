package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"submgmt/internal/config"
)

// SMTPConfig holds SMTP connection and branding settings, sourced from
// the environment at startup.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string // envelope from, e.g. "no-reply@yoursite.com"
	FromName   string
	UseSSL     bool // SMTPS 465; otherwise STARTTLS 587
	RequireTLS bool

	SiteName   string // used in subjects and the footer
	SiteURL    string // renewal link target
	RenewalURL string // defaults to SiteURL + "/subscription"
}

// SubscriptionEmail carries the rendered facts of one subscription.
type SubscriptionEmail struct {
	PlanName       string
	PlanAmount     float64
	Currency       string
	DurationMonths int
	StartsOn       time.Time
	EndsOn         time.Time
	DaysRemaining  int
}

type IMailService interface {
	SendSubscriptionSuccess(ctx context.Context, to, userName string, data SubscriptionEmail, cfg config.Settings) error
	SendRenewalReminder(ctx context.Context, to, userName string, data SubscriptionEmail, cfg config.Settings) error
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSMTPMailService(cfg SMTPConfig) (IMailService, error) {
	if cfg.RenewalURL == "" {
		cfg.RenewalURL = strings.TrimRight(cfg.SiteURL, "/") + "/subscription"
	}
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("billingHTML").Parse(billingHTMLTemplate)),
		textTpl: template.Must(template.New("billingText").Parse(billingTextTemplate)),
	}, nil
}

type emailData struct {
	Title     string
	Intro     string
	Rows      [][2]string
	ButtonURL string
	ButtonTxt string
	SiteName  string
	Year      int
}

const billingHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
</head>
<body style="margin:0;padding:24px;background:#f4f5f7;font-family:-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;color:#1f2933;">
  <div style="max-width:560px;margin:0 auto;background:#ffffff;border-radius:8px;overflow:hidden;border:1px solid #e4e7eb;">
    <div style="padding:20px 28px;border-bottom:1px solid #e4e7eb;font-weight:700;font-size:18px;">{{.SiteName}}</div>
    <div style="padding:28px;">
      <h1 style="margin:0 0 12px;font-size:22px;">{{.Title}}</h1>
      <p style="margin:0 0 20px;line-height:1.6;color:#3e4c59;">{{.Intro}}</p>
      <table style="width:100%;border-collapse:collapse;margin-bottom:24px;">
        {{range .Rows}}
        <tr>
          <td style="padding:8px 0;color:#7b8794;font-size:14px;">{{index . 0}}</td>
          <td style="padding:8px 0;text-align:right;font-size:14px;">{{index . 1}}</td>
        </tr>
        {{end}}
      </table>
      {{if .ButtonURL}}
      <a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#2563eb;color:#ffffff;text-decoration:none;border-radius:6px;font-weight:600;">{{.ButtonTxt}}</a>
      {{end}}
    </div>
    <div style="padding:16px 28px;border-top:1px solid #e4e7eb;color:#7b8794;font-size:12px;text-align:center;">
      © {{.Year}} {{.SiteName}}. All rights reserved.
    </div>
  </div>
</body>
</html>`

const billingTextTemplate = `{{.Title}}

{{.Intro}}

{{range .Rows}}{{index . 0}}: {{index . 1}}
{{end}}
{{if .ButtonURL}}{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
-- {{.SiteName}} (c) {{.Year}}
`

func (s *smtpMailService) SendSubscriptionSuccess(ctx context.Context, to, userName string, data SubscriptionEmail, cfg config.Settings) error {
	subject := s.renderSubject(cfg.SuccessEmailSubject, userName, data)
	html, text, err := s.render(emailData{
		Title: "Subscription Successful",
		Intro: fmt.Sprintf("Hi %s, your subscription to %s is confirmed. Here is your summary.",
			userName, data.PlanName),
		Rows: [][2]string{
			{"Plan", data.PlanName},
			{"Amount", formatCurrency(data.PlanAmount, data.Currency)},
			{"Duration", formatMonths(data.DurationMonths)},
			{"Starts on", data.StartsOn.Format("Jan 2, 2006")},
			{"Ends on", data.EndsOn.Format("Jan 2, 2006")},
		},
		SiteName: s.cfg.SiteName,
		Year:     time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) SendRenewalReminder(ctx context.Context, to, userName string, data SubscriptionEmail, cfg config.Settings) error {
	subject := s.renderSubject(cfg.RenewalEmailSubject, userName, data)
	html, text, err := s.render(emailData{
		Title: "Subscription Renewal Reminder",
		Intro: fmt.Sprintf("Hi %s, your %s subscription ends in %s. Renew now to keep uninterrupted access.",
			userName, data.PlanName, formatDays(data.DaysRemaining)),
		Rows: [][2]string{
			{"Plan", data.PlanName},
			{"Amount", formatCurrency(data.PlanAmount, data.Currency)},
			{"Ends on", data.EndsOn.Format("Jan 2, 2006")},
			{"Days remaining", strconv.Itoa(data.DaysRemaining)},
		},
		ButtonURL: s.cfg.RenewalURL,
		ButtonTxt: "Renew Subscription",
		SiteName:  s.cfg.SiteName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

// renderSubject substitutes the {placeholder} variables admins may use
// in subject templates.
func (s *smtpMailService) renderSubject(tpl, userName string, data SubscriptionEmail) string {
	r := strings.NewReplacer(
		"{site_name}", s.cfg.SiteName,
		"{user_name}", userName,
		"{plan_name}", data.PlanName,
		"{days_remaining}", strconv.Itoa(data.DaysRemaining),
	)
	return r.Replace(tpl)
}

func (s *smtpMailService) render(data emailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func formatCurrency(amount float64, currency string) string {
	switch currency {
	case "INR":
		return fmt.Sprintf("₹ %.2f", amount)
	case "USD":
		return fmt.Sprintf("$%.2f", amount)
	case "EUR":
		return fmt.Sprintf("€%.2f", amount)
	default:
		return fmt.Sprintf("%s %.2f", currency, amount)
	}
}

func formatMonths(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}

func formatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	fromHeader := s.formatFromHeader()
	date := time.Now().Format(time.RFC1123Z)
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", fromHeader)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", subject)
	write("Date: %s\r\n", date)
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 7bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()
		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()
		return s.transmit(c, auth, to, msg.Bytes())
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	} else if s.cfg.RequireTLS {
		return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
	}
	return s.transmit(c, auth, to, msg.Bytes())
}

func (s *smtpMailService) transmit(c *smtp.Client, auth smtp.Auth, to string, msg []byte) error {
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
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
	return fmt.Sprintf("%s <%s>", name, s.cfg.From)
}
