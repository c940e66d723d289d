package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/cropbook/internal/domain/models"
)

const (
	cropsCollection     = "crops"
	expensesCollection  = "expenses"
	salesCollection     = "sales"
	snapshotsCollection = "report_snapshots"
)

// Repository defines the record-store operations the analytics service needs.
type Repository interface {
	ListCrops(ctx context.Context) ([]CropRecord, error)
	ListExpenses(ctx context.Context) ([]ExpenseRecord, error)
	ListSales(ctx context.Context) ([]SaleRecord, error)
	SaveReportSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// ListCrops loads every production unit document.
func (r *MongoDBRepository) ListCrops(ctx context.Context) ([]CropRecord, error) {
	var records []CropRecord
	if err := r.loadAll(ctx, cropsCollection, &records); err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	return records, nil
}

// ListExpenses loads every expense document.
func (r *MongoDBRepository) ListExpenses(ctx context.Context) ([]ExpenseRecord, error) {
	var records []ExpenseRecord
	if err := r.loadAll(ctx, expensesCollection, &records); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return records, nil
}

// ListSales loads every sale document.
func (r *MongoDBRepository) ListSales(ctx context.Context) ([]SaleRecord, error) {
	var records []SaleRecord
	if err := r.loadAll(ctx, salesCollection, &records); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return records, nil
}

// SaveReportSnapshot persists the headline figures of one report run.
func (r *MongoDBRepository) SaveReportSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	collection := r.client.Database(r.dbName).Collection(snapshotsCollection)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) loadAll(ctx context.Context, name string, out interface{}) error {
	collection := r.client.Database(r.dbName).Collection(name)
	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}
