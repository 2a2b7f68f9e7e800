package delivery

import (
	"context"
	"fmt"

	"supplymatch_backend/internal/config"
	"supplymatch_backend/internal/repositories"

	"gopkg.in/gomail.v2"
)

// EmailChannel delivers match notifications by email. The recipient address is
// resolved from the supplier's owning user.
type EmailChannel struct {
	cfg   *config.Config
	users repositories.UserRepository
}

func NewEmailChannel(cfg *config.Config, users repositories.UserRepository) *EmailChannel {
	return &EmailChannel{cfg: cfg, users: users}
}

func (c *EmailChannel) Deliver(ctx context.Context, notification Notification) error {
	user, err := c.users.FindByID(ctx, notification.SupplierUserID)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", notification.SupplierUserID, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(c.cfg.Email.FromEmail, c.cfg.Email.FromName))
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "New request matches your offering")
	m.SetBody("text/html", c.buildBody(notification))

	d := gomail.NewDialer(
		c.cfg.Email.SMTPHost,
		c.cfg.Email.SMTPPort,
		c.cfg.Email.SMTPUsername,
		c.cfg.Email.SMTPPassword,
	)

	// gomail has no context support; the queue's per-attempt timeout still
	// bounds the overall attempt because the worker treats a late return as
	// a failure of an already-abandoned attempt.
	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *EmailChannel) buildBody(notification Notification) string {
	return fmt.Sprintf(
		`<p>A new request in your category is looking for a supplier.</p>
<p>%s</p>
<p>Open the app to accept or reject match %s. Accepting reveals the requester's contact details.</p>`,
		notification.Request.Description,
		notification.MatchID,
	)
}
