package applications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type NotifyConfig struct {
	Smtp       SmtpConfig `json:"smtp"`
	Recipients []string   `json:"recipients"`
}

// SendDigest emails the given applications to the configured recipients.
// Nothing is sent when either the application list or the recipient list is
// empty.
func SendDigest(ctx context.Context, config NotifyConfig, apps []DevelopmentApplication) error {
	_, span := tracer.Start(ctx, "SendDigest")
	defer span.End()

	if len(apps) == 0 || len(config.Recipients) == 0 {
		return nil
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Council Watch <%s>", config.Smtp.EmailAddress)
	mail.To = config.Recipients
	mail.Subject = fmt.Sprintf("%d new development applications", len(apps))

	var body strings.Builder
	for _, app := range apps {
		fmt.Fprintf(&body, "%s\n", app.CouncilReference)
		fmt.Fprintf(&body, "    %s\n", app.Address)
		if app.Description != "" {
			fmt.Fprintf(&body, "    %s\n", app.Description)
		}
		if app.DateReceived != "" {
			fmt.Fprintf(&body, "    Lodged: %s\n", app.DateReceived)
		}
		fmt.Fprintf(&body, "    %s\n\n", app.InfoUrl)
	}
	mail.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%d", config.Smtp.Server, config.Smtp.Port)
	err := mail.Send(addr, smtp.PlainAuth("", config.Smtp.EmailAddress, config.Smtp.Password, config.Smtp.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send digest email")
		return err
	}

	return nil
}
