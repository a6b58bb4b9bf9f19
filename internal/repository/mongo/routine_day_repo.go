package mongo

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routineDayCollectionName = "routine_days"

// mongoRoutineDayRepository implements repository.RoutineDayRepository
type mongoRoutineDayRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineDayRepository creates a new RoutineDay repository.
func NewMongoRoutineDayRepository(db *mongo.Database) repository.RoutineDayRepository {
	return &mongoRoutineDayRepository{
		collection: db.Collection(routineDayCollectionName),
	}
}

// Create inserts a routine day. (routineId, dayNumber) is unique.
func (r *mongoRoutineDayRepository) Create(ctx context.Context, day *domain.RoutineDay) (primitive.ObjectID, error) {
	if day.RoutineID == primitive.NilObjectID || day.DayNumber < 1 {
		return primitive.NilObjectID, errors.New("routine day requires routineId and a positive dayNumber")
	}
	day.ID = primitive.NewObjectID()
	day.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, day)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine day ID")
	}
	return insertedID, nil
}

// GetByRoutineID returns the routine's days ordered by day number.
func (r *mongoRoutineDayRepository) GetByRoutineID(ctx context.Context, routineID primitive.ObjectID) ([]domain.RoutineDay, error) {
	var days []domain.RoutineDay
	findOptions := options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"routineId": routineID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// CountByRoutineID returns the number of days in a routine.
func (r *mongoRoutineDayRepository) CountByRoutineID(ctx context.Context, routineID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"routineId": routineID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// EnsureRoutineDayIndexes creates necessary indexes. Call during startup.
func EnsureRoutineDayIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}, {Key: "dayNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
