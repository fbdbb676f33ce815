package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Kamal-Bhagchandani/jira-lite/models"
)

type MongoProjectRepository struct {
	collection *mongo.Collection
}

func NewMongoProjectRepository(collection *mongo.Collection) *MongoProjectRepository {
	return &MongoProjectRepository{collection: collection}
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = models.NewProjectID()
	}
	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (r *MongoProjectRepository) GetByID(ctx context.Context, id models.ProjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	return &project, nil
}

// Save writes the mutable fields, matching on the version the project was
// read at. A MatchedCount of zero means someone else wrote in between.
func (r *MongoProjectRepository) Save(ctx context.Context, project *models.Project) error {
	filter := bson.M{"_id": project.ID, "version": project.Version}
	update := bson.M{
		"$set": bson.M{"members": project.Members},
		"$inc": bson.M{"version": 1},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}
	project.Version++
	return nil
}

func (r *MongoProjectRepository) FindByUser(ctx context.Context, userID models.UserID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"createdBy": userID},
		{"members": userID},
	}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}
