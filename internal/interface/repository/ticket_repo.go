// internal/interface/repository/ticket_repo.go
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

// MongoTicketRepository implements the TicketRepository interface
type MongoTicketRepository struct {
	collection *mongo.Collection
}

// NewMongoTicketRepository creates a new MongoDB ticket repository
func NewMongoTicketRepository(db *mongo.Database) repository.TicketRepository {
	collection := db.Collection("tickets")

	ctx := context.Background()

	scheduleIndex := mongo.IndexModel{
		Keys: bson.M{"scheduledStart": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{scheduleIndex})

	return &MongoTicketRepository{
		collection: collection,
	}
}

// Save inserts a new ticket and returns its id
func (r *MongoTicketRepository) Save(ctx context.Context, ticket *entity.Ticket) (string, error) {
	if ticket.ID == "" {
		ticket.ID = primitive.NewObjectID().Hex()
	}
	if ticket.RawStatus == "" {
		ticket.RawStatus = entity.RawCreated
	}
	now := time.Now()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, ticket)
	if err != nil {
		return "", err
	}
	return ticket.ID, nil
}

// FindByID finds a ticket by id
func (r *MongoTicketRepository) FindByID(ctx context.Context, id string) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, entity.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// FindAll returns tickets ordered by scheduled start, soonest first
func (r *MongoTicketRepository) FindAll(ctx context.Context, limit int) ([]*entity.Ticket, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "scheduledStart", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*entity.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}

	return tickets, nil
}

// AppendScan pushes a scan event and updates the raw status in one update
func (r *MongoTicketRepository) AppendScan(ctx context.Context, id string, event entity.ScanEvent) error {
	update := bson.M{
		"$set": bson.M{
			"rawStatus": event.EventStatus,
			"updatedAt": event.Timestamp,
		},
		"$push": bson.M{
			"scanLog": event,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to append scan event: %w", err)
	}

	if result.MatchedCount == 0 {
		return entity.ErrTicketNotFound
	}

	return nil
}
