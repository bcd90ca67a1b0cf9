// internal/interface/repository/counter_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"
	"tourism-cert-service/pkg/logger"
	"tourism-cert-service/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// transientTransactionLabel is the error label the server attaches to
// transactions that collided with a concurrent writer and may be retried.
const transientTransactionLabel = "TransientTransactionError"

// MongoCounterRepository implements the CounterRepository interface. Next is
// the one operation in the service that needs true mutual exclusion, so it
// runs its read-modify-write inside a session transaction: the driver
// re-executes the callback with fresh reads whenever a concurrent allocation
// committed in between.
type MongoCounterRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewMongoCounterRepository creates a new MongoDB year-counter repository
func NewMongoCounterRepository(client *mongo.Client, db *mongo.Database, metrics *metrics.Metrics, logger logger.Logger) repository.CounterRepository {
	collection := db.Collection("yearCounters")

	ctx := context.Background()

	yearIndex := mongo.IndexModel{
		Keys:    bson.M{"year": 1},
		Options: options.Index().SetUnique(true),
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{yearIndex})

	return &MongoCounterRepository{
		client:     client,
		collection: collection,
		metrics:    metrics,
		logger:     logger,
	}
}

// Next reads the year's counter (defaulting to zero when the year has no
// record yet), increments it, writes it back, and returns the new value. The
// callback must stay free of externally visible effects beyond its own
// writes and retry bookkeeping because the driver may run it more than once
// per call.
func (r *MongoCounterRepository) Next(ctx context.Context, year int) (int, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("failed to start counter session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	attempt := 0
	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		attempt++
		trackRetry(r.metrics, attempt)

		var counter entity.YearCounter
		err := r.collection.FindOne(sc, bson.M{"year": year}).Decode(&counter)
		if err != nil && err != mongo.ErrNoDocuments {
			return nil, err
		}

		next := counter.LastNumber + 1

		_, err = r.collection.UpdateOne(
			sc,
			bson.M{"year": year},
			bson.M{"$set": bson.M{"lastNumber": next}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}

		return next, nil
	}, txnOpts)

	if err != nil {
		// WithTransaction already retried transient conflicts up to the
		// driver's budget; anything still labeled transient here is a real
		// allocation conflict for the caller.
		if isTransient(err) {
			r.logger.Warn("Counter transaction retry budget exhausted", "year", year, "error", err)
			return 0, entity.ErrAllocationConflict
		}
		return 0, fmt.Errorf("counter transaction failed for year %d: %w", year, err)
	}

	return result.(int), nil
}

// trackRetry counts callback re-executions. The first attempt is not a retry.
func trackRetry(m *metrics.Metrics, attempt int) {
	if m != nil && attempt > 1 {
		m.AllocationRetries.Inc()
	}
}

// isTransient reports whether err carries the transient-transaction label,
// however deeply the driver error is wrapped and whichever server error type
// carries it.
func isTransient(err error) bool {
	var srvErr mongo.ServerError
	return errors.As(err, &srvErr) && srvErr.HasErrorLabel(transientTransactionLabel)
}
