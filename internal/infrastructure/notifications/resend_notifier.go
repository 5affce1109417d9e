package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"sterling_partners/internal/domain/entities"
	"sterling_partners/internal/logger"
	"sterling_partners/internal/usecase/interfaces"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

var confirmationTemplate = template.Must(template.New("booking_confirmation").Parse(`<p>Beste {{.Name}},</p>
<p>Bedankt voor uw aanvraag. Uw kennismakingsgesprek staat gepland op <strong>{{.Date}}</strong> om <strong>{{.Time}}</strong>.</p>
<p>Pakket: {{.Package}}{{if .Company}}<br>Bedrijf: {{.Company}}{{end}}</p>
<p>Referentie: {{.Reference}}</p>
<p>Met vriendelijke groet,<br>{{.FromName}}</p>
`))

type confirmationData struct {
	Name      string
	Date      string
	Time      string
	Package   string
	Company   string
	Reference string
	FromName  string
}

var packageLabels = map[entities.PackageChoice]string{
	entities.PackageBasic:     "Basis",
	entities.PackageGrowth:    "Groei",
	entities.PackagePlus:      "Plus",
	entities.PackageUndecided: "Nog niet bekend",
}

// ResendNotifier emails booking confirmations through Resend.
type ResendNotifier struct {
	sender    emailSender
	fromEmail string
	fromName  string
}

var _ interfaces.IBookingNotifier = (*ResendNotifier)(nil)

func NewResendNotifier(apiKey, fromEmail, fromName string) *ResendNotifier {
	client := resend.NewClient(apiKey)
	return newResendNotifier(client.Emails, fromEmail, fromName)
}

func newResendNotifier(sender emailSender, fromEmail, fromName string) *ResendNotifier {
	return &ResendNotifier{sender: sender, fromEmail: fromEmail, fromName: fromName}
}

func (n *ResendNotifier) SendBookingConfirmation(ctx context.Context, b entities.Booking) error {
	date := b.Date
	if d, err := time.Parse("2006-01-02", b.Date); err == nil {
		date = d.Format("02-01-2006")
	}

	var body bytes.Buffer
	err := confirmationTemplate.Execute(&body, confirmationData{
		Name:      b.Contact.Name,
		Date:      date,
		Time:      b.Time,
		Package:   packageLabels[b.Package],
		Company:   b.Contact.Company,
		Reference: b.ID,
		FromName:  n.fromName,
	})
	if err != nil {
		return errors.Wrap(err, "render confirmation email")
	}

	sent, err := n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail),
		To:      []string{b.Contact.Email},
		Subject: fmt.Sprintf("Bevestiging afspraak %s om %s", date, b.Time),
		Html:    body.String(),
		Headers: map[string]string{
			"X-Entity-Ref-ID": b.ID,
		},
		Tags: []resend.Tag{
			{Name: "category", Value: "booking_confirmation"},
		},
	})
	if err != nil {
		logger.Error("[booking][email] send failed", zap.String("booking_id", b.ID), zap.Error(err))
		return errors.Wrap(err, "send confirmation email")
	}

	logger.Info("[booking][email] confirmation sent",
		zap.String("booking_id", b.ID),
		zap.String("email_id", sent.Id),
	)
	return nil
}
