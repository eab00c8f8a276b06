package db

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

type exampleStruct struct {
	ID    string
	Name  string
	Email string
}

func TestInMemoryRepoFlows(t *testing.T) {
	repo := NewInMemoryRepo[*exampleStruct](5)

	entry1, err := repo.Create(&Entry[*exampleStruct]{Data: &exampleStruct{Name: "Alice", Email: "alice@example.com"}})
	assert.NoError(t, err)
	assert.NotEmpty(t, entry1.ID)

	got, found := repo.Read(entry1.ID)
	assert.True(t, found)
	assert.Equal(t, entry1, got)

	got.Data.Email = "alice@newdomain.com"
	assert.Equal(t, "alice@newdomain.com", entry1.Data.Email)

	assert.Len(t, repo.ReadAll(), 1)

	assert.NoError(t, addAnother("2", "Benny", "bennylennykenny@example.com", repo))
	assert.Error(t, addAnother("2", "Benny", "bennylennykenny@example.com", repo), "duplicate key should fail")

	assert.Len(t, repo.ReadAll(), 2)

	got.Data.Name = "Alice Updated"
	assert.NoError(t, repo.Update(&Entry[*exampleStruct]{ID: entry1.ID, Data: got.Data}))
	updated, _ := repo.Read(entry1.ID)
	assert.Equal(t, "Alice Updated", updated.Data.Name)

	assert.Error(t, repo.Update(&Entry[*exampleStruct]{ID: "unknown", Data: &exampleStruct{}}))

	assert.True(t, repo.Delete(entry1.ID))
	assert.Len(t, repo.ReadAll(), 1)

	repo.Clear()
	assert.Len(t, repo.ReadAll(), 0)

	for i := 0; i < 1000; i++ {
		_, err := repo.Create(&Entry[*exampleStruct]{ID: strconv.Itoa(i), Data: &exampleStruct{Name: "Alice"}})
		assert.NoError(t, err)
	}
	assert.Len(t, repo.ReadAll(), 5, "bounded capacity should evict the oldest entries")

	for i := 995; i < 1000; i++ {
		_, found := repo.Read(strconv.Itoa(i))
		assert.True(t, found, "entry %d expected to survive eviction", i)
	}
}

func addAnother(id, name, email string, repository Repository[*exampleStruct]) error {
	_, err := repository.Create(&Entry[*exampleStruct]{
		ID:   id,
		Data: &exampleStruct{ID: id, Name: name, Email: email},
	})
	return err
}
