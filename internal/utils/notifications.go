package utils

import (
	"log"

	"lumiskin_back_end/internal/models"
)

// MailNotifier delivers order-lifecycle email. Every method is best-effort:
// a send failure is logged and swallowed, it never reaches the caller.
type MailNotifier struct{}

func (MailNotifier) PaymentConfirmed(order models.Order, email string) {
	html := GeneratePaymentConfirmationHTML(order)
	if err := SendEmail(email, "✅ Payment confirmed - Lumiskin", html); err != nil {
		log.Printf("❌ Payment confirmation email failed for order %s: %v", order.ID, err)
		return
	}
	log.Printf("📧 Payment confirmation sent to %s for order %s", email, order.ID)
}

func (MailNotifier) RefundIssued(order models.Order, amount float64, email string) {
	html := GenerateRefundConfirmationHTML(order, amount)
	if err := SendEmail(email, "💰 Refund confirmation - Lumiskin", html); err != nil {
		log.Printf("❌ Refund confirmation email failed for order %s: %v", order.ID, err)
		return
	}
	log.Printf("📧 Refund confirmation sent to %s for order %s", email, order.ID)
}
