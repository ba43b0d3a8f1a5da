package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"os"
	"strings"

	"certimport-backend/dtos"

	"github.com/sirupsen/logrus"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if config.Host == "" || config.Port == "" || config.From == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

func importSummarySubject(session dtos.ImportSession) string {
	success := 0
	if session.Import != nil {
		success = session.Import.Success
	}
	return fmt.Sprintf("Product import finished - %d products imported", success)
}

func importSummaryBody(session dtos.ImportSession) string {
	var b strings.Builder
	b.WriteString("<h2>Product import finished</h2>\n")
	fmt.Fprintf(&b, "<p>Session <strong>%s</strong> (%s)", session.ID, html.EscapeString(session.Source))
	if session.CreatedBy != "" {
		fmt.Fprintf(&b, " started by %s", html.EscapeString(session.CreatedBy))
	}
	b.WriteString(".</p>\n<ul>\n")
	if r := session.Result; r != nil {
		fmt.Fprintf(&b, "<li>Rows validated: %d</li>\n", len(r.Products))
		fmt.Fprintf(&b, "<li>Already existing: %d</li>\n", r.Existing)
		fmt.Fprintf(&b, "<li>Rows with errors: %d</li>\n", r.Invalid)
	}
	if i := session.Import; i != nil {
		fmt.Fprintf(&b, "<li>Products imported: <strong>%d</strong></li>\n", i.Success)
	}
	b.WriteString("</ul>\n")
	if session.ReportURL != "" {
		fmt.Fprintf(&b, "<p>The validation report is archived at <a href=\"%[1]s\">%[1]s</a>.</p>\n", html.EscapeString(session.ReportURL))
	}
	return b.String()
}

// SendImportSummary mails the outcome of a committed import in the background.
func SendImportSummary(to string, session dtos.ImportSession) {
	if to == "" {
		return
	}
	go func() {
		if err := SendEmail(to, importSummarySubject(session), importSummaryBody(session)); err != nil {
			logrus.WithField("session_id", session.ID).Warnf("Failed to send import summary to %s: %v", to, err)
			return
		}
		logrus.WithField("session_id", session.ID).Infof("Import summary sent to %s", to)
	}()
}
