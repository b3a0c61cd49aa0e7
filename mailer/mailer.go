package mailer

import "github.com/rs/zerolog"

// Mailer delivers password-reset links. Actual delivery is an external
// collaborator; the default implementation only logs the message.
type Mailer interface {
	SendPasswordReset(email, token string) error
}

// LogMailer writes the reset link to the application log instead of sending
// mail. Useful in development and as the default until an email provider is
// wired in.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendPasswordReset(email, token string) error {
	m.log.Info().
		Str("email", email).
		Str("token", token).
		Msg("password reset requested")
	return nil
}
