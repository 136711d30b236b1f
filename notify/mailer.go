package notify

import (
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Alerter tells an operator that a committed transaction was not persisted.
type Alerter interface {
	DurabilityFailure(operation string, cause error) error
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

// Mailer sends alerts over SMTP.
type Mailer struct {
	sender Sender
	from   string
	to     []string
	log    *zap.Logger
	now    func() time.Time
}

// New returns a Mailer, or a no-op alerter when SMTP or recipients are not
// configured.
func New(cfg SMTPConfig, log *zap.Logger) Alerter {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Host == "" || len(cfg.To) == 0 {
		return Nop{}
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return NewMailer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), from, cfg.To, log)
}

func NewMailer(sender Sender, from string, to []string, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{sender: sender, from: from, to: to, log: log, now: time.Now}
}

func (m *Mailer) DurabilityFailure(operation string, cause error) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", "Stock ledger snapshot failed: "+operation)
	msg.SetBody("text/html", fmt.Sprintf(`
		<html>
			<body>
				<h3>Snapshot write failed</h3>
				<p>Operation: <strong>%s</strong></p>
				<p>Time: %s</p>
				<p>Error: <code>%s</code></p>
				<p>The change is applied in memory but will be lost on restart until a later snapshot succeeds.</p>
			</body>
		</html>
	`, html.EscapeString(operation), m.now().UTC().Format(time.RFC3339), html.EscapeString(cause.Error())))

	if err := m.sender.DialAndSend(msg); err != nil {
		m.log.Error("send durability alert", zap.String("operation", operation), zap.Error(err))
		return err
	}
	m.log.Info("durability alert sent", zap.String("operation", operation), zap.Strings("to", m.to))
	return nil
}

// Nop drops every alert.
type Nop struct{}

func (Nop) DurabilityFailure(string, error) error { return nil }
