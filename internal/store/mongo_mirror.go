package store

import (
	"context"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/model"
)

// MongoMirror is a best-effort, longer-retention copy of job records.
// Redis stays the sole read-path source of truth (Get/List never consult
// Mongo) so the record's ordering guarantees hold regardless of mirror
// lag; a mirror write failure is logged, never propagated to the caller.
type MongoMirror struct {
	collection *mongo.Collection
}

// NewMongoMirror connects to mongoURL and returns a mirror writing into the
// "jobs" collection of the "syla" database (overridable via the URL path).
func NewMongoMirror(ctx context.Context, mongoURL string) (*MongoMirror, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	dbName := "syla"
	if u, err := url.Parse(mongoURL); err == nil {
		if p := strings.Trim(u.Path, "/"); p != "" {
			dbName = p
		}
	}
	db := client.Database(dbName)
	return &MongoMirror{collection: db.Collection("jobs")}, nil
}

// Mirror upserts job into the mirror collection. Errors are logged and
// swallowed: the mirror is a retention convenience, not the store.
func (m *MongoMirror) Mirror(ctx context.Context, job *model.Job) {
	if m == nil || m.collection == nil {
		return
	}
	logger := log.WithComponent("mongo-mirror")

	raw, err := bson.Marshal(job)
	if err != nil {
		logger.Warn().Err(err).Str("job_id", job.ID.String()).Msg("mirror encode failed")
		return
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		logger.Warn().Err(err).Str("job_id", job.ID.String()).Msg("mirror decode failed")
		return
	}
	delete(fields, "_id")

	_, err = m.collection.UpdateOne(
		ctx,
		bson.M{"_id": job.ID.String()},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		logger.Warn().Err(err).Str("job_id", job.ID.String()).Msg("mirror write failed")
	}
}

// Close disconnects the underlying Mongo client.
func (m *MongoMirror) Close(ctx context.Context) error {
	if m == nil || m.collection == nil {
		return nil
	}
	return m.collection.Database().Client().Disconnect(ctx)
}
