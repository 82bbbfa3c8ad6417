package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/ports"
)

// LogNotifier writes reset notices to the log instead of sending mail. Meant
// for development, where the token is read from the console.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyReset(_ context.Context, notice ports.ResetNotice) error {
	n.log.Info().
		Str("email", notice.Email).
		Str("username", notice.Username).
		Str("reset_token", notice.Token).
		Time("issued_at", notice.IssuedAt).
		Msg("password reset token issued")
	return nil
}
