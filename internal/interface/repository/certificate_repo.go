// internal/interface/repository/certificate_repo.go
package repository

import (
	"context"
	"fmt"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCertificateRepository implements the CertificateRepository interface
type MongoCertificateRepository struct {
	collection *mongo.Collection
}

// NewMongoCertificateRepository creates a new MongoDB certificate repository
func NewMongoCertificateRepository(db *mongo.Database) repository.CertificateRepository {
	collection := db.Collection("certificates")

	ctx := context.Background()

	applicationIndex := mongo.IndexModel{
		Keys: bson.M{"applicationId": 1},
	}

	// One certificate per approval event; the unique index is the backstop
	// for the issuer's idempotency check.
	approvalEventIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "applicationId", Value: 1},
			{Key: "approvalEventId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		applicationIndex,
		approvalEventIndex,
	})

	return &MongoCertificateRepository{
		collection: collection,
	}
}

// Save inserts a certificate. Certificates are never updated afterwards.
func (r *MongoCertificateRepository) Save(ctx context.Context, cert *entity.Certificate) error {
	_, err := r.collection.InsertOne(ctx, cert)
	if err != nil {
		return fmt.Errorf("failed to save certificate %s: %w", cert.ID, err)
	}
	return nil
}

// FindByID finds a certificate by its TOURISM-NNNN-YYYY id
func (r *MongoCertificateRepository) FindByID(ctx context.Context, id string) (*entity.Certificate, error) {
	var cert entity.Certificate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cert)
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// FindByApprovalEvent returns the certificate minted for one approval event,
// or nil when none exists
func (r *MongoCertificateRepository) FindByApprovalEvent(ctx context.Context, applicationID, approvalEventID string) (*entity.Certificate, error) {
	var cert entity.Certificate
	err := r.collection.FindOne(ctx, bson.M{
		"applicationId":   applicationID,
		"approvalEventId": approvalEventID,
	}).Decode(&cert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

// FindByApplication returns all certificates issued to one application,
// oldest first
func (r *MongoCertificateRepository) FindByApplication(ctx context.Context, applicationID string) ([]*entity.Certificate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"applicationId": applicationID}, &options.FindOptions{
		Sort: bson.D{{Key: "issuedAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var certs []*entity.Certificate
	if err := cursor.All(ctx, &certs); err != nil {
		return nil, err
	}

	return certs, nil
}
