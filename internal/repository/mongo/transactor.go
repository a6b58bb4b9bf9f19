package mongo

import (
	"alcyxob/fitness-coach/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTransactor runs multi-document writes in a MongoDB transaction.
// Transactions require a replica set; with enabled=false fn runs directly and
// earlier writes are not undone when a later one fails.
type mongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

// NewTransactor creates a repository.Transactor backed by client sessions.
func NewTransactor(client *mongo.Client, enabled bool) repository.Transactor {
	return &mongoTransactor{client: client, enabled: enabled}
}

func (t *mongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
