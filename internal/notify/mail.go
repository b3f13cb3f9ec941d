package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/lotesmx/leadbot/internal/models"
)

// DefaultSMTPPort is used when no port is configured.
const DefaultSMTPPort = 587

// MailOpts holds configuration options for the mail notifier.
type MailOpts struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// MailOption defines a configuration option for the mail notifier.
type MailOption func(*MailOpts)

// WithSMTPHost sets the SMTP server hostname.
func WithSMTPHost(host string) MailOption {
	return func(o *MailOpts) { o.Host = host }
}

// WithSMTPPort sets the SMTP server port. Port 465 switches to implicit TLS.
func WithSMTPPort(port int) MailOption {
	return func(o *MailOpts) { o.Port = port }
}

// WithSMTPCredentials sets the SMTP username and password.
func WithSMTPCredentials(username, password string) MailOption {
	return func(o *MailOpts) {
		o.Username = username
		o.Password = password
	}
}

// WithAddresses sets the lead mail sender and operator recipient.
func WithAddresses(from, to string) MailOption {
	return func(o *MailOpts) {
		o.From = from
		o.To = to
	}
}

// MailNotifier delivers each lead as an HTML mail to the operator inbox.
type MailNotifier struct {
	client *mail.Client
	from   string
	to     string
}

// NewMailNotifier creates an SMTP-backed lead notifier. Unset options fall
// back to the SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, LEADS_EMAIL_FROM
// and LEADS_EMAIL_TO environment variables.
func NewMailNotifier(opts ...MailOption) (*MailNotifier, error) {
	var cfg MailOpts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Host == "" {
		cfg.Host = os.Getenv("SMTP_HOST")
	}
	if cfg.Port == 0 {
		cfg.Port, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultSMTPPort
	}
	if cfg.Username == "" {
		cfg.Username = os.Getenv("SMTP_USER")
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("SMTP_PASS")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("LEADS_EMAIL_FROM")
	}
	if cfg.To == "" {
		cfg.To = os.Getenv("LEADS_EMAIL_TO")
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host not set")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("lead mail addresses not set")
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		clientOpts = append(clientOpts, mail.WithSSL())
	}
	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	slog.Debug("MailNotifier created", "host", cfg.Host, "port", cfg.Port, "to", cfg.To)
	return &MailNotifier{client: client, from: cfg.From, to: cfg.To}, nil
}

// NotifyLead sends the lead mail to the operator.
func (n *MailNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := msg.To(n.to); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}
	msg.Subject(leadSubject(lead))
	msg.SetBodyString(mail.TypeTextHTML, leadHTML(lead))

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send lead mail: %w", err)
	}
	slog.Info("MailNotifier lead delivered", "lead_id", lead.ID, "intent", lead.Intent)
	return nil
}
