package ses

import (
	"context"
	"fmt"
	"html"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"rentdesk/internal/domain"
	"rentdesk/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) SendInvoiceNotice(ctx context.Context, n port.InvoiceNotice) error {
	subject := fmt.Sprintf("Invoice %s from %s", n.InvoiceNumber, n.CompanyName)
	amount := n.Currency + " " + n.TotalAmount.StringFixed(2)
	date := n.InvoiceDate.Format(domain.DateLayout)

	textBody := fmt.Sprintf("Hi %s,\n\nInvoice %s dated %s for %s has been issued.\n\nView your statement at %s\n\n%s",
		n.ToName, n.InvoiceNumber, date, amount, s.frontendURL, n.CompanyName)
	htmlBody := buildHTML(subject, n.ToName, []string{
		fmt.Sprintf("Invoice <strong>%s</strong> dated %s has been issued.", html.EscapeString(n.InvoiceNumber), date),
		fmt.Sprintf("Amount due: <strong>%s</strong>", html.EscapeString(amount)),
	}, s.frontendURL, n.CompanyName)

	return s.send(ctx, n.ToEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendPaymentReceipt(ctx context.Context, r port.PaymentReceipt) error {
	subject := fmt.Sprintf("Payment received for invoice %s", r.InvoiceNumber)
	amount := r.Currency + " " + r.Amount.StringFixed(2)
	balance := r.Currency + " " + r.Balance.StringFixed(2)
	date := r.CollectionDate.Format(domain.DateLayout)

	textBody := fmt.Sprintf("Hi %s,\n\nWe received %s by %s on %s against invoice %s.\nRemaining balance: %s\n\n%s",
		r.ToName, amount, r.CollectionMode, date, r.InvoiceNumber, balance, r.CompanyName)
	htmlBody := buildHTML(subject, r.ToName, []string{
		fmt.Sprintf("We received <strong>%s</strong> by %s on %s against invoice %s.",
			html.EscapeString(amount), html.EscapeString(r.CollectionMode), date, html.EscapeString(r.InvoiceNumber)),
		fmt.Sprintf("Remaining balance: <strong>%s</strong>", html.EscapeString(balance)),
	}, s.frontendURL, r.CompanyName)

	return s.send(ctx, r.ToEmail, subject, htmlBody, textBody)
}

func (s *sesSender) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// buildHTML renders the shared notification layout. Paragraphs are trusted markup.
func buildHTML(title, name string, paragraphs []string, linkURL, companyName string) string {
	body := ""
	for _, p := range paragraphs {
		body += "  <p>" + p + "</p>\n"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Hi %s,</p>
%s  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #0F766E; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View statement</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">%s</p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(name), body, linkURL, html.EscapeString(companyName))
}
