package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/lotesmx/leadbot/internal/models"
)

// twilioSender is the slice of the Twilio API the notifier uses; the REST
// client satisfies it, tests substitute a fake.
type twilioSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioOpts holds configuration options for the Twilio SMS notifier.
type TwilioOpts struct {
	AccountSID string
	AuthToken  string
	From       string
	OperatorTo string
}

// TwilioOption defines a configuration option for the Twilio SMS notifier.
type TwilioOption func(*TwilioOpts)

// WithAccountSID sets the Twilio account SID.
func WithAccountSID(sid string) TwilioOption {
	return func(o *TwilioOpts) { o.AccountSID = sid }
}

// WithAuthToken sets the Twilio auth token.
func WithAuthToken(token string) TwilioOption {
	return func(o *TwilioOpts) { o.AuthToken = token }
}

// WithFromNumber sets the Twilio sender number.
func WithFromNumber(from string) TwilioOption {
	return func(o *TwilioOpts) { o.From = from }
}

// WithOperatorNumber sets the operator's phone number leads are sent to.
func WithOperatorNumber(to string) TwilioOption {
	return func(o *TwilioOpts) { o.OperatorTo = to }
}

// TwilioNotifier delivers each lead as a compact SMS to the operator phone.
type TwilioNotifier struct {
	sender twilioSender
	from   string
	to     string
}

// NewTwilioNotifier creates a Twilio-backed lead notifier. Unset options
// fall back to the TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN,
// TWILIO_FROM_NUMBER and LEADS_SMS_TO environment variables.
func NewTwilioNotifier(opts ...TwilioOption) (*TwilioNotifier, error) {
	var cfg TwilioOpts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.AccountSID == "" {
		cfg.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if cfg.From == "" {
		cfg.From = os.Getenv("TWILIO_FROM_NUMBER")
	}
	if cfg.OperatorTo == "" {
		cfg.OperatorTo = os.Getenv("LEADS_SMS_TO")
	}

	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("account SID and auth token must be provided")
	}
	if cfg.From == "" || cfg.OperatorTo == "" {
		return nil, fmt.Errorf("sender and operator numbers must be provided")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	slog.Debug("TwilioNotifier created", "from", cfg.From, "to", cfg.OperatorTo)
	return &TwilioNotifier{sender: client.Api, from: cfg.From, to: cfg.OperatorTo}, nil
}

// NotifyLead sends the lead summary SMS to the operator.
func (n *TwilioNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(leadText(lead))

	if _, err := n.sender.CreateMessage(params); err != nil {
		return fmt.Errorf("send lead sms to %s: %w", n.to, err)
	}
	slog.Info("TwilioNotifier lead delivered", "lead_id", lead.ID, "intent", lead.Intent)
	return nil
}
