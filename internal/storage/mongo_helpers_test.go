package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func writeErrors(codes ...int) []mongo.BulkWriteError {
	out := make([]mongo.BulkWriteError, len(codes))
	for i, code := range codes {
		out[i] = mongo.BulkWriteError{WriteError: mongo.WriteError{Index: i, Code: code, Message: "write failed"}}
	}
	return out
}

func TestInsertedIgnoringDuplicates(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		inserted int
		wantErr  bool
	}{
		{
			name:     "no error",
			inserted: 4,
		},
		{
			name:     "all duplicates",
			err:      mongo.BulkWriteException{WriteErrors: writeErrors(duplicateKeyCode, duplicateKeyCode, duplicateKeyCode, duplicateKeyCode)},
			inserted: 0,
		},
		{
			name:     "some duplicates",
			err:      mongo.BulkWriteException{WriteErrors: writeErrors(duplicateKeyCode)},
			inserted: 3,
		},
		{
			name:     "wrapped duplicates",
			err:      fmt.Errorf("insert: %w", mongo.BulkWriteException{WriteErrors: writeErrors(duplicateKeyCode, duplicateKeyCode)}),
			inserted: 2,
		},
		{
			name:    "duplicate mixed with another failure",
			err:     mongo.BulkWriteException{WriteErrors: writeErrors(duplicateKeyCode, 121)},
			wantErr: true,
		},
		{
			name: "write concern failure",
			err: mongo.BulkWriteException{
				WriteErrors:       writeErrors(duplicateKeyCode),
				WriteConcernError: &mongo.WriteConcernError{Code: 64, Message: "waiting for replication timed out"},
			},
			wantErr: true,
		},
		{
			name:    "not a bulk error",
			err:     errors.New("connection reset"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inserted, err := insertedIgnoringDuplicates(4, tt.err)
			if tt.wantErr {
				assert.Equal(t, tt.err, err)
				assert.Zero(t, inserted)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.inserted, inserted)
		})
	}
}
