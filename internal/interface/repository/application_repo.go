// internal/interface/repository/application_repo.go
package repository

import (
	"context"
	"fmt"
	"time"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoApplicationRepository implements the ApplicationRepository interface
type MongoApplicationRepository struct {
	collection *mongo.Collection
}

// NewMongoApplicationRepository creates a new MongoDB application repository
func NewMongoApplicationRepository(db *mongo.Database) repository.ApplicationRepository {
	collection := db.Collection("applications")

	// Create indexes for better performance
	ctx := context.Background()

	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	// Compound index for the reconciler's approved-application sweep
	approvedIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "updatedAt", Value: 1},
		},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		statusIndex,
		approvedIndex,
	})

	return &MongoApplicationRepository{
		collection: collection,
	}
}

// Save inserts a new application and returns its id
func (r *MongoApplicationRepository) Save(ctx context.Context, app *entity.Application) (string, error) {
	if app.ID == "" {
		app.ID = primitive.NewObjectID().Hex()
	}
	if app.Status == "" {
		app.Status = entity.StatusPending
	}
	now := time.Now()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, app)
	if err != nil {
		return "", err
	}
	return app.ID, nil
}

// FindByID finds an application by id
func (r *MongoApplicationRepository) FindByID(ctx context.Context, id string) (*entity.Application, error) {
	var app entity.Application
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// AppendTransition sets the status and pushes the history entry in one update
func (r *MongoApplicationRepository) AppendTransition(ctx context.Context, id string, entry entity.StatusHistoryEntry) error {
	update := bson.M{
		"$set": bson.M{
			"status":    entry.Status,
			"updatedAt": entry.Timestamp,
		},
		"$push": bson.M{
			"statusHistory": entry,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append transition: %w", err)
	}

	if result.MatchedCount == 0 {
		return entity.ErrApplicationNotFound
	}

	return nil
}

// AppendTransitionWithCertificate applies an approval transition and the
// certificate back-link as a single update on the application document
func (r *MongoApplicationRepository) AppendTransitionWithCertificate(ctx context.Context, id string, entry entity.StatusHistoryEntry, certID string, summary entity.CertificateSummary) error {
	update := bson.M{
		"$set": bson.M{
			"status":            entry.Status,
			"latestCertificate": summary,
			"updatedAt":         entry.Timestamp,
		},
		"$push": bson.M{
			"statusHistory":  entry,
			"certificateIds": certID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append approval transition: %w", err)
	}

	if result.MatchedCount == 0 {
		return entity.ErrApplicationNotFound
	}

	return nil
}

// LinkCertificate backfills a certificate reference without touching the
// status or history. $addToSet keeps a reconciler replay from double-linking.
func (r *MongoApplicationRepository) LinkCertificate(ctx context.Context, id string, certID string, summary *entity.CertificateSummary) error {
	set := bson.M{
		"updatedAt": time.Now(),
	}
	if summary != nil {
		set["latestCertificate"] = summary
	}

	update := bson.M{
		"$set": set,
		"$addToSet": bson.M{
			"certificateIds": certID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to link certificate: %w", err)
	}

	if result.MatchedCount == 0 {
		return entity.ErrApplicationNotFound
	}

	return nil
}

// FindByStatus finds applications by status
func (r *MongoApplicationRepository) FindByStatus(ctx context.Context, status string, limit int) ([]*entity.Application, error) {
	filter := bson.M{"status": status}

	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "updatedAt", Value: 1}}, // Oldest first
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []*entity.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}

	return apps, nil
}
