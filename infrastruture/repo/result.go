package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	dmn "github.com/rssebastian/maze-game/domain"
	"github.com/rssebastian/maze-game/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ i.ResultRepo = &ResultRepo{}

// ResultRepo handles the persistence of finished session results.
type ResultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new ResultRepo with the given MongoDB client, database name, and collection name.
func NewResultRepo(client *mongo.Client, dbName, collectionName string) *ResultRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &ResultRepo{
		collection: collection,
	}
}

// Save inserts or updates the result of a session.
// Results are keyed by session ID so recording twice keeps one document.
func (r *ResultRepo) Save(ctx context.Context, result *dmn.Result) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	filter := bson.M{"_id": result.SessionID.String()}
	update := bson.M{"$set": result}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}

	return nil
}

// ByID retrieves the result of a session.
// Returns i.ErrNotFound if the session has no recorded result.
func (r *ResultRepo) ByID(ctx context.Context, sessionID uuid.UUID) (*dmn.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	filter := bson.M{"_id": sessionID.String()}
	var result dmn.Result
	if err := r.collection.FindOne(ctx, filter).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, i.ErrNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	result.SessionID = sessionID
	return &result, nil
}
