package persistence

import (
	"fmt"
	"net/url"

	"github.com/FatihZee/tele-bot/infrastructure/configuration"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoDb connects the primary document store. cfg.URI wins when set;
// otherwise the URI is assembled from the host pieces.
func NewMongoDb(cfg configuration.Db) (*mongo.Client, error) {
	uri := cfg.URI
	if uri == "" {
		port := cfg.Port
		if port == "" {
			port = "27017"
		}
		u := &url.URL{Scheme: "mongodb", Host: fmt.Sprintf("%s:%s", cfg.Host, port)}
		if cfg.User != "" {
			if cfg.Password != "" {
				u.User = url.UserPassword(cfg.User, cfg.Password)
			} else {
				u.User = url.User(cfg.User)
			}
		}
		uri = u.String()
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}
	return client, nil
}
