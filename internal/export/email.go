// -----------------------------------------------------------------------
// Email Export - SMTP delivery of exports using user credentials
// Credentials are stored in KeyValue storage with smtp_ prefix
// -----------------------------------------------------------------------

package export

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/interfaces"
)

// SMTPConfig holds SMTP settings loaded from KeyValue storage.
type SMTPConfig struct {
	Host     string `json:"smtp_host"`
	Port     int    `json:"smtp_port"`
	Username string `json:"smtp_username"`
	Password string `json:"smtp_password"`
	From     string `json:"smtp_from"`
	FromName string `json:"smtp_from_name"`
	UseTLS   bool   `json:"smtp_use_tls"`
}

// Attachment is one file attached to an export email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Mailer delivers exports by email using the user's own SMTP account.
type Mailer struct {
	kvStorage interfaces.KeyValueStorage
	logger    arbor.ILogger
}

// NewMailer creates a new mailer
func NewMailer(kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) *Mailer {
	return &Mailer{
		kvStorage: kvStorage,
		logger:    logger,
	}
}

// GetConfig retrieves SMTP configuration from KeyValue storage.
func (m *Mailer) GetConfig(ctx context.Context) (*SMTPConfig, error) {
	config := &SMTPConfig{
		Port:     587,
		UseTLS:   true,
		FromName: "SiteScoop",
	}

	if host, err := m.kvStorage.Get(ctx, "smtp_host"); err == nil && host != "" {
		config.Host = host
	}
	if portStr, err := m.kvStorage.Get(ctx, "smtp_port"); err == nil && portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Port = port
		}
	}
	if username, err := m.kvStorage.Get(ctx, "smtp_username"); err == nil {
		config.Username = username
	}
	if password, err := m.kvStorage.Get(ctx, "smtp_password"); err == nil {
		config.Password = password
	}
	if from, err := m.kvStorage.Get(ctx, "smtp_from"); err == nil && from != "" {
		config.From = from
	}
	if fromName, err := m.kvStorage.Get(ctx, "smtp_from_name"); err == nil && fromName != "" {
		config.FromName = fromName
	}
	if tlsStr, err := m.kvStorage.Get(ctx, "smtp_use_tls"); err == nil && tlsStr != "" {
		config.UseTLS = strings.ToLower(tlsStr) == "true" || tlsStr == "1"
	}

	return config, nil
}

// IsConfigured checks whether the minimum SMTP settings are present.
func (m *Mailer) IsConfigured(ctx context.Context) bool {
	config, err := m.GetConfig(ctx)
	if err != nil {
		return false
	}
	return config.Host != "" && config.Username != "" && config.Password != "" && config.From != ""
}

// SendExport mails a plain-text preview of the scraped data with the full
// export attached.
func (m *Mailer) SendExport(ctx context.Context, to string, subject string, preview string, attachments []Attachment) error {
	config, err := m.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to get mail config: %w", err)
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if config.Username == "" || config.Password == "" {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if config.From == "" {
		return fmt.Errorf("from email not configured")
	}

	msg := buildMIMEMessage(config, to, subject, preview, attachments)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	auth := smtp.PlainAuth("", config.Username, config.Password, config.Host)

	if config.UseTLS {
		err = m.sendWithTLS(addr, auth, config.From, to, msg)
	} else {
		err = smtp.SendMail(addr, auth, config.From, []string{to}, []byte(msg))
	}
	if err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("Failed to send export email")
		return err
	}

	m.logger.Info().
		Str("to", to).
		Int("attachments", len(attachments)).
		Msg("Export email sent")

	return nil
}

// buildMIMEMessage assembles a multipart/mixed message: base64 text body
// plus base64 attachments. RFC 5322 limits line length, so everything is
// encoded.
func buildMIMEMessage(config *SMTPConfig, to, subject, body string, attachments []Attachment) string {
	boundary := generateBoundary()

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", config.FromName, config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(encodeBase64WithLineBreaks(body))
	msg.WriteString("\r\n")

	for _, att := range attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", contentType, att.Filename))
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", att.Filename))
		msg.WriteString("\r\n")
		msg.WriteString(encodeBase64WithLineBreaks(string(att.Content)))
		msg.WriteString("\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return msg.String()
}

// sendWithTLS sends over a direct TLS connection, falling back to STARTTLS.
func (m *Mailer) sendWithTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return m.sendWithSTARTTLS(addr, auth, from, to, msg)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return transmit(client, auth, from, to, msg)
}

// sendWithSTARTTLS upgrades a plain connection to TLS.
func (m *Mailer) sendWithSTARTTLS(addr string, auth smtp.Auth, from, to, msg string) error {
	host := strings.Split(addr, ":")[0]

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return transmit(client, auth, from, to, msg)
}

func transmit(client *smtp.Client, auth smtp.Auth, from, to, msg string) error {
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// generateBoundary creates a unique MIME boundary string.
func generateBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "sitescoop_boundary_fallback"
	}
	return fmt.Sprintf("sitescoop_%x", b)
}

// encodeBase64WithLineBreaks encodes content as base64 with 76-char lines
// per RFC 2045.
func encodeBase64WithLineBreaks(content string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var result strings.Builder
	const lineLen = 76
	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		result.WriteString(encoded[i:end])
		if end < len(encoded) {
			result.WriteString("\r\n")
		}
	}
	return result.String()
}
