package servicebus

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus connects the optional Azure Service Bus namespace using the
// ambient Azure credential chain. Callers treat a nil client as
// "integration disabled".
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace is empty")
	}
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire azure credential: %w", err)
	}
	client, err := azservicebus.NewClient(namespace, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create service bus client: %w", err)
	}
	return client, nil
}
