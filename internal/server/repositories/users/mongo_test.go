package users

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestMongoError(t *testing.T) {
	assert.ErrorIs(t, mongoError(mongo.ErrNoDocuments), common.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}}
	assert.ErrorIs(t, mongoError(dup), common.ErrDuplicateIdentifier)

	other := mongoError(errors.New("connection reset"))
	assert.EqualError(t, other, "db error: connection reset")
	assert.False(t, errors.Is(other, common.ErrNotFound))
}

func TestMongoError_WrappedNoDocuments(t *testing.T) {
	err := mongoError(fmt.Errorf("find: %w", mongo.ErrNoDocuments))
	assert.ErrorIs(t, err, common.ErrNotFound)
}
