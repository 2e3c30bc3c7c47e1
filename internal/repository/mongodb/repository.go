package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// SnapshotCollection holds one document per archived inventory snapshot.
const SnapshotCollection = "inventory_snapshots"

// Repository stores inventory snapshots.
type Repository interface {
	SaveSnapshot(ctx context.Context, snapshot models.InventorySnapshot) error
}

// MongoDBRepository archives snapshots in MongoDB.
type MongoDBRepository struct {
	client    *mongo.Client
	snapshots *mongo.Collection
	now       func() time.Time
}

// NewMongoDBRepository connects to uri and checks the deployment is reachable.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return newRepository(client, dbName), nil
}

func newRepository(client *mongo.Client, dbName string) *MongoDBRepository {
	return &MongoDBRepository{
		client:    client,
		snapshots: client.Database(dbName).Collection(SnapshotCollection),
		now:       time.Now,
	}
}

// SaveSnapshot inserts snapshot, stamping CreatedAt when the caller left it unset.
// Empty item and low stock lists are stored as empty arrays.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.InventorySnapshot) error {
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = r.now().UTC()
	}
	if snapshot.Items == nil {
		snapshot.Items = []models.Item{}
	}
	if snapshot.LowStock == nil {
		snapshot.LowStock = []int{}
	}

	if _, err := r.snapshots.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("insert inventory snapshot taken at %s: %w", snapshot.TakenAt.Format(time.RFC3339), err)
	}
	return nil
}

// Close disconnects the client.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
