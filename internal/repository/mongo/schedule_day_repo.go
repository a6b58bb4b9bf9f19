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

const scheduleDayCollectionName = "schedule_days"

// mongoScheduleDayRepository implements repository.ScheduleDayRepository
type mongoScheduleDayRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleDayRepository creates a new ScheduleDay repository.
func NewMongoScheduleDayRepository(db *mongo.Database) repository.ScheduleDayRepository {
	return &mongoScheduleDayRepository{
		collection: db.Collection(scheduleDayCollectionName),
	}
}

// CreateMany inserts a batch of schedule records. Records must already carry
// normalized calendar dates.
func (r *mongoScheduleDayRepository) CreateMany(ctx context.Context, days []domain.ScheduleDay) error {
	if len(days) == 0 {
		return nil
	}
	docs := make([]interface{}, len(days))
	for i := range days {
		if days[i].AssignmentID == primitive.NilObjectID {
			return errors.New("schedule day requires assignmentId")
		}
		days[i].ID = primitive.NewObjectID()
		docs[i] = days[i]
	}

	// Unordered so dates that already exist do not stop the rest from being inserted.
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	return nil
}

// GetByAssignmentInRange returns the records of an assignment with from <= date <= to.
func (r *mongoScheduleDayRepository) GetByAssignmentInRange(ctx context.Context, assignmentID primitive.ObjectID, from, to time.Time) ([]domain.ScheduleDay, error) {
	var days []domain.ScheduleDay
	filter := bson.M{
		"assignmentId": assignmentID,
		"date":         bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
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

// GetByAssignmentAndDate returns the single record for one calendar date.
func (r *mongoScheduleDayRepository) GetByAssignmentAndDate(ctx context.Context, assignmentID primitive.ObjectID, date time.Time) (*domain.ScheduleDay, error) {
	var day domain.ScheduleDay
	err := r.collection.FindOne(ctx, bson.M{"assignmentId": assignmentID, "date": date}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// MarkCompleted upserts the record for date as completed and links the session.
func (r *mongoScheduleDayRepository) MarkCompleted(ctx context.Context, assignmentID primitive.ObjectID, date time.Time, sessionID primitive.ObjectID) error {
	return r.upsertFlags(ctx, assignmentID, date, bson.M{
		"isCompleted":      true,
		"workoutSessionId": sessionID,
	})
}

// MarkSkipped upserts the record for date as skipped.
func (r *mongoScheduleDayRepository) MarkSkipped(ctx context.Context, assignmentID primitive.ObjectID, date time.Time) error {
	return r.upsertFlags(ctx, assignmentID, date, bson.M{"wasSkipped": true})
}

func (r *mongoScheduleDayRepository) upsertFlags(ctx context.Context, assignmentID primitive.ObjectID, date time.Time, set bson.M) error {
	filter := bson.M{"assignmentId": assignmentID, "date": date}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"isRestDay": false,
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// EnsureScheduleDayIndexes creates necessary indexes. Call during startup.
func EnsureScheduleDayIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// Exactly one record per (assignment, calendar date)
			Keys:    bson.D{{Key: "assignmentId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
