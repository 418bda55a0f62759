package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// findOne decodes the first document matching filter into T.
// A miss is reported as ErrNotFound.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	if err := coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find in %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

// findMany decodes every document matching filter into []*T
func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []*T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return docs, nil
}

// findPage runs a counted, paginated query
func findPage[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, sort bson.D, page Page) ([]*T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}

	opts := options.Find().SetSort(sort)
	if page.Limit > 0 {
		opts.SetSkip(int64(page.Skip())).SetLimit(int64(page.Limit))
	}

	docs, err := findMany[T](ctx, coll, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// insertOne inserts doc, mapping unique index violations to ErrDuplicate
func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert into %s: %w", coll.Name(), err)
	}
	return nil
}

// replaceByID overwrites the document with the given id
func replaceByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to replace in %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteOne removes one document, reporting a miss as ErrNotFound
func deleteOne(ctx context.Context, coll *mongo.Collection, filter interface{}) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteMany removes every matching document
func deleteMany(ctx context.Context, coll *mongo.Collection, filter interface{}) (int64, error) {
	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// exists reports whether any document matches filter
func exists(ctx context.Context, coll *mongo.Collection, filter interface{}) (bool, error) {
	count, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}
	return count > 0, nil
}

// onlyDuplicates reports whether every write error in a bulk failure is a
// unique index violation, returning how many documents were rejected.
func onlyDuplicates(err error) (int, bool) {
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return 0, false
	}
	for _, we := range bulkErr.WriteErrors {
		if we.Code != duplicateKeyCode {
			return 0, false
		}
	}
	return len(bulkErr.WriteErrors), true
}

// insertedIgnoringDuplicates turns the result of an unordered bulk insert of
// total documents into the number inserted. Unique index violations are not
// errors; anything else is returned as is.
func insertedIgnoringDuplicates(total int, err error) (int, error) {
	if err == nil {
		return total, nil
	}
	rejected, ok := onlyDuplicates(err)
	if !ok {
		return 0, err
	}
	return total - rejected, nil
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}
