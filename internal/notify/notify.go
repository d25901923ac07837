// Package notify delivers order confirmations to patients.
package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/keighl/postmark"

	"hospot/internal/config"
	"hospot/internal/domain"
	applog "hospot/internal/log"
)

// Notifier is told about every order that was placed successfully.
type Notifier interface {
	OrderPlaced(o domain.Order) error
}

// New returns a Postmark notifier when a token is configured and a log-only one otherwise.
func New(cfg config.Config) Notifier {
	if cfg.PostmarkToken == "" {
		return LogNotifier{}
	}
	return NewPostmark(cfg.PostmarkToken, cfg.EmailSender)
}

// LogNotifier records the confirmation in the application log.
type LogNotifier struct{}

func (LogNotifier) OrderPlaced(o domain.Order) error {
	applog.Logger().Info().
		Str("action", "order.confirmation").
		Str("order_id", o.ID).
		Str("user", o.UserID).
		Float64("total", o.TotalAmount).
		Msg("confirmation e-mail skipped, no mail provider configured")
	return nil
}

type emailSender interface {
	SendEmail(postmark.Email) (postmark.EmailResponse, error)
}

type Postmark struct {
	client emailSender
	from   string
}

func NewPostmark(token, from string) *Postmark {
	return &Postmark{client: postmark.NewClient(token, ""), from: from}
}

func (p *Postmark) OrderPlaced(o domain.Order) error {
	text, htmlBody := confirmationBody(o)
	_, err := p.client.SendEmail(postmark.Email{
		From:     p.from,
		To:       o.UserID,
		Subject:  "Hospot order confirmation",
		TextBody: text,
		HtmlBody: htmlBody,
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}

func confirmationBody(o domain.Order) (string, string) {
	var t, h strings.Builder
	fmt.Fprintf(&t, "Thank you for your order %s.\n\n", o.ID)
	fmt.Fprintf(&h, "<p>Thank you for your order <strong>%s</strong>.</p><ul>", html.EscapeString(o.ID))
	for _, it := range o.Items {
		fmt.Fprintf(&t, "%d x %s  $%.2f\n", it.Quantity, it.MedicineName, it.Subtotal())
		fmt.Fprintf(&h, "<li>%d x %s &mdash; $%.2f</li>", it.Quantity, html.EscapeString(it.MedicineName), it.Subtotal())
	}
	fmt.Fprintf(&t, "\nDelivery fee  $%.2f\nTotal  $%.2f\nPayment: %s\nDeliver to: %s\n",
		domain.DeliveryFee, o.TotalAmount, o.PaymentMethod, o.DeliveryAddress)
	fmt.Fprintf(&h, "</ul><p>Delivery fee: $%.2f<br>Total: <strong>$%.2f</strong><br>Payment: %s<br>Deliver to: %s</p>",
		domain.DeliveryFee, o.TotalAmount, html.EscapeString(o.PaymentMethod), html.EscapeString(o.DeliveryAddress))
	return t.String(), h.String()
}
