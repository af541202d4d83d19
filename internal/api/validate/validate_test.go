package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/searchrail/searchrail/internal/model"
)

func TestCreateUser(t *testing.T) {
	assert.NoError(t, CreateUser("alice", "alice@example.test"))
	assert.Error(t, CreateUser("", "alice@example.test"))
	assert.Error(t, CreateUser("Alice!", "alice@example.test"))
	assert.Error(t, CreateUser("alice", "not-an-email"))
}

func TestCreateSearch(t *testing.T) {
	assert.NoError(t, CreateSearch("inbox", "in:inbox label:todo"))
	assert.Error(t, CreateSearch("", "in:inbox"))
	assert.Error(t, CreateSearch("inbox", ""))
	assert.Error(t, CreateSearch(strings.Repeat("x", 256), "q"))
	assert.Error(t, CreateSearch("inbox", strings.Repeat("x", 4001)))
}

func TestUpdateSearch(t *testing.T) {
	name, query, empty := "n", "q", ""
	pos, neg := 2, -1

	assert.Error(t, UpdateSearch(nil, nil, nil))
	assert.NoError(t, UpdateSearch(&name, nil, nil))
	assert.NoError(t, UpdateSearch(nil, &query, &pos))
	assert.Error(t, UpdateSearch(&empty, nil, nil))
	assert.Error(t, UpdateSearch(nil, &empty, nil))
	assert.ErrorIs(t, UpdateSearch(nil, nil, &neg), model.ErrInvalidPosition)
}
