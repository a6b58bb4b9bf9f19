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

const assignmentCollectionName = "routine_assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new, active assignment with its pointer at the first routine day.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.RoutineAssignment) (primitive.ObjectID, error) {
	if assignment.RoutineID == primitive.NilObjectID || assignment.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires routineId and clientId")
	}
	if !assignment.PlanType.Valid() {
		return primitive.NilObjectID, errors.New("assignment requires a valid planType")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	assignment.CurrentDayIndex = 0
	assignment.IsActive = true

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RoutineAssignment, error) {
	var assignment domain.RoutineAssignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetActiveByClientID retrieves the client's active assignments, oldest first.
func (r *mongoAssignmentRepository) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.RoutineAssignment, error) {
	var assignments []domain.RoutineAssignment
	filter := bson.M{"clientId": clientID, "isActive": true}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CompareAndSwapDayIndex is a single-document conditional update, so concurrent
// completions for one assignment cannot both apply on top of the same value.
// A document without currentDayIndex counts as index 0.
func (r *mongoAssignmentRepository) CompareAndSwapDayIndex(ctx context.Context, id primitive.ObjectID, prev, next int) (bool, error) {
	update := bson.M{
		"$set": bson.M{
			"currentDayIndex": next,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, dayIndexFilter(id, prev), update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func dayIndexFilter(id primitive.ObjectID, prev int) bson.M {
	if prev != 0 {
		return bson.M{"_id": id, "currentDayIndex": prev}
	}
	return bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"currentDayIndex": 0},
			bson.M{"currentDayIndex": bson.M{"$exists": false}},
		},
	}
}

// Deactivate marks the assignment as stopped. Its schedule history is kept.
func (r *mongoAssignmentRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// Active assignments of a client, for the calendar
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "startDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}},
			Options: options.Index(),
		},
	})
}
