package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/infrastructure/logger"
)

// defaultTopic receives download events when no topic is configured.
const defaultTopic = "media-downloads"

// IDownloadPubSub publishes a DownloadEvent after a fully successful relay.
type IDownloadPubSub interface {
	PublishDownload(ctx context.Context, event model.DownloadEvent) (string, error)
}

type DownloadPubSub struct {
	PubSubClient *pubsub.Client
	topicName    string
}

func NewDownloadPubSub(pubSubClient *pubsub.Client, topicName string) IDownloadPubSub {
	if topicName == "" {
		topicName = defaultTopic
	}
	return &DownloadPubSub{
		PubSubClient: pubSubClient,
		topicName:    topicName,
	}
}

func (d *DownloadPubSub) PublishDownload(ctx context.Context, event model.DownloadEvent) (string, error) {
	if d.PubSubClient == nil {
		return "", nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	topic := d.PubSubClient.Topic(d.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		logger.GetLogger().WithField("topic", d.topicName).Info("Topic doesn't exist - creating it")
		if _, err = d.PubSubClient.CreateTopic(ctx, d.topicName); err != nil {
			return "", err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return "", err
	}

	logger.GetLogger().WithField("server ID", serverID).Info("Download event published")
	return serverID, nil
}
