package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// NewPubSub connects the optional GCP Pub/Sub project. Callers treat a nil
// client as "integration disabled".
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return client, nil
}
