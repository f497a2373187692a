package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// OrderMailer prévient le client des changements de statut de sa commande.
// Implémente order.Notifier.
type OrderMailer struct{}

func (OrderMailer) StatusChanged(o models.Order) error {
	to := o.Customer.Email
	if to == "" {
		return fmt.Errorf("commande %s sans e-mail client", o.ID)
	}

	var subject, body string
	switch o.Status {
	case models.StatusVue:
		subject = fmt.Sprintf("Commande %s - vue", o.ID)
		body = statusHTML(o, "Votre commande a bien été vue et passe en préparation.")
	case models.StatusPrete:
		subject = fmt.Sprintf("Commande %s - prête", o.ID)
		body = statusHTML(o, "Votre commande est prête.")
	default:
		return nil
	}

	// Click & Collect : QR de retrait joint quand la commande est prête
	var attachment []byte
	if o.Status == models.StatusPrete && o.Delivery == models.DeliveryClick {
		png, err := PickupQR(o)
		if err != nil {
			log.Printf("⚠️ QR de retrait non généré pour %s: %v", o.ID, err)
		} else {
			attachment = png
		}
	}

	return send(to, subject, body, attachment)
}

// PickupQR encode la référence de commande en QR à présenter au retrait.
func PickupQR(o models.Order) ([]byte, error) {
	payload := fmt.Sprintf("opochon:commande:%s", o.ID)
	return qrcode.Encode(payload, qrcode.Medium, 256)
}

func send(to, subject, htmlBody string, pngAttachment []byte) error {
	msg := mail.NewMsg()

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@opochonmagique.fr"
	}
	if err := msg.From(from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pngAttachment != nil {
		msg.AttachReader("retrait.png", bytes.NewReader(pngAttachment))
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

func statusHTML(o models.Order, message string) string {
	itemsHTML := ""
	for _, item := range o.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%s</td>
				<td>%d</td>
				<td>%.2f€</td>
			</tr>`, item.Name, item.Variant, item.Quantity, item.UnitPrice*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Commande %s</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #065f46;">Commande %s</h2>
		<p>Bonjour,</p>
		<p>%s</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #ecfdf5;">
					<th style="padding: 8px; text-align: left;">Produit</th>
					<th style="padding: 8px; text-align: left;">Variante</th>
					<th style="padding: 8px; text-align: left;">Qté</th>
					<th style="padding: 8px; text-align: left;">Total</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 8px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 8px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>
		<p style="margin-top: 30px; color: #555;">
			Merci,<br>
			<strong>Ô Pochon Magique</strong>
		</p>
	</div>
</body>
</html>`, o.ID, o.ID, message, itemsHTML, o.Total)
}
