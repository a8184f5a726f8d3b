package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensemblefm/ensemble/db"
)

func TestStaleRowError(t *testing.T) {
	dbc, err := db.NewMock()
	require.NoError(t, err)
	defer dbc.Close()

	// a version guard that misses against a row that still exists is a
	// concurrency conflict, never silently resolved
	musician := &db.Musician{
		FirstName: "Alice", LastName: "Smith", Phone: "5550000001",
		SIN: "111111111",
	}
	require.NoError(t, dbc.Create(musician).Error)

	err = staleRowError(dbc.DB, &db.Musician{}, musician.ID)
	require.Error(t, err)
	assert.Equal(t, KindConcurrency, KindOf(err))

	// against a vanished row it degrades to not-found
	err = staleRowError(dbc.DB, &db.Musician{}, musician.ID+1)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindPersistence, KindOf(assert.AnError))
	assert.Equal(t, msgPersistence, MessageOf(assert.AnError))
	assert.Nil(t, FieldsOf(assert.AnError))
}
