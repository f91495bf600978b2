package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDB create a new MongoDB connection
func NewMongoDB(ctx context.Context, c Connection, dbName string) (*MongoDB, error) {
	clientOpts := options.Client().ApplyURI(c.ConnectStr)

	var client *mongo.Client
	var err error

	for i := 0; i <= c.RetryCount; i++ {
		client, err = mongo.Connect(ctx, clientOpts)
		if err == nil {
			// Ping the database to verify the connection
			pingErr := client.Ping(ctx, readpref.Primary())
			if pingErr == nil {
				db := client.Database(dbName)
				return &MongoDB{
					Client:   client,
					Database: db,
				}, nil
			}
			err = pingErr
		}

		if i < c.RetryCount {
			time.Sleep(c.RetryInterval)
		}
	}

	return nil, errors.New("failed to connect to MongoDB after retries: " + err.Error())
}

// Close disenable mongoDB connection
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// kvRecord 單一 collection 保存所有 namespaced record
type kvRecord struct {
	Key      string    `bson:"_id"`
	Value    []byte    `bson:"value"`
	ExpireAt time.Time `bson:"expire_at,omitempty"`
}

// mongoKVStore mongo backed KVStore, 需要 durable prefix scan 的部署用這個
type mongoKVStore struct {
	coll *mongo.Collection
}

// NewMongoKVStore create a mongo backed KVStore on the given collection
func NewMongoKVStore(db *mongo.Database, collection string) KVStore {
	return &mongoKVStore{coll: db.Collection(collection)}
}

func (s *mongoKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var rec kvRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrKeyNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if !rec.ExpireAt.IsZero() && time.Now().After(rec.ExpireAt) {
		return nil, ErrKeyNotFound
	}
	return rec.Value, nil
}

func (s *mongoKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	rec := kvRecord{Key: key, Value: value}
	if ttl > 0 {
		rec.ExpireAt = time.Now().Add(ttl)
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, rec, opts)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *mongoKVStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	filter := bson.M{"_id": bson.M{"$regex": primitive.Regex{Pattern: "^" + prefix}}}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prefix %s: %w", prefix, err)
	}

	var recs []kvRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("cursor All error: %w", err)
	}

	now := time.Now()
	var values [][]byte
	for _, rec := range recs {
		if !rec.ExpireAt.IsZero() && now.After(rec.ExpireAt) {
			continue
		}
		values = append(values, rec.Value)
	}
	return values, nil
}

func (s *mongoKVStore) Del(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
