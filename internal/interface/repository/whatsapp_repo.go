package repository

import (
	"context"
	"errors"
	"fmt"

	"flightdeals-service/internal/domain/entity"
	"flightdeals-service/internal/domain/repository"
	"flightdeals-service/pkg/logger"

	"github.com/twilio/twilio-go"
	twilioClient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio API service used for delivery
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsappRepository sends alerts to one WhatsApp number through Twilio
type WhatsappRepository struct {
	api    messageCreator
	from   string
	to     string
	logger logger.Logger
}

// NewWhatsappRepository creates a new WhatsApp repository.
// from and to use the "whatsapp:+<number>" form.
func NewWhatsappRepository(accountSID, authToken, from, to string, logger logger.Logger) repository.WhatsappRepository {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newWhatsappRepository(client.Api, from, to, logger)
}

func newWhatsappRepository(api messageCreator, from, to string, logger logger.Logger) *WhatsappRepository {
	return &WhatsappRepository{
		api:    api,
		from:   from,
		to:     to,
		logger: logger,
	}
}

// SendMessage delivers text and returns the provider message SID
func (r *WhatsappRepository) SendMessage(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(r.from)
	params.SetTo(r.to)
	params.SetBody(text)

	msg, err := r.api.CreateMessage(params)
	if err != nil {
		var restErr *twilioClient.TwilioRestError
		if errors.As(err, &restErr) {
			return "", fmt.Errorf("send whatsapp message: %w", &entity.StatusError{
				Op:         fmt.Sprintf("twilio error %d", restErr.Code),
				StatusCode: restErr.Status,
				Body:       restErr.Message,
			})
		}
		return "", transportError("send whatsapp message", err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}

	r.logger.Info("WhatsApp message sent", "sid", sid, "to", r.to)
	return sid, nil
}
