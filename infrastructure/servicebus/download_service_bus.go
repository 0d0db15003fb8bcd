package servicebus

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// defaultQueue receives download events when no queue is configured.
const defaultQueue = "media-downloads"

// IDownloadServiceBus forwards a DownloadEvent to the configured queue after
// a fully successful relay.
type IDownloadServiceBus interface {
	SendDownloadEvent(ctx context.Context, event model.DownloadEvent) error
}

type DownloadServiceBus struct {
	AzservicebusClient *azservicebus.Client
	queueName          string
}

func NewDownloadServiceBus(azServiceBusClient *azservicebus.Client, queueName string) IDownloadServiceBus {
	if queueName == "" {
		queueName = defaultQueue
	}
	return &DownloadServiceBus{
		AzservicebusClient: azServiceBusClient,
		queueName:          queueName,
	}
}

func (d *DownloadServiceBus) SendDownloadEvent(ctx context.Context, event model.DownloadEvent) error {
	if d.AzservicebusClient == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sender, err := d.AzservicebusClient.NewSender(d.queueName, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, ctx)

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
