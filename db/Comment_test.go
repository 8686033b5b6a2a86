package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func TestNestComments(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	comments := []Comment{
		{ID: 4, TaskID: 1, Content: "reply to 3", ParentID: intPtr(3), Created: base.Add(4 * time.Minute)},
		{ID: 1, TaskID: 1, Content: "first", Created: base},
		{ID: 3, TaskID: 1, Content: "reply to 1", ParentID: intPtr(1), Created: base.Add(2 * time.Minute)},
		{ID: 2, TaskID: 1, Content: "second", Created: base.Add(time.Minute)},
		{ID: 5, TaskID: 1, Content: "early reply to 1", ParentID: intPtr(1), Created: base.Add(90 * time.Second)},
	}

	threads := NestComments(comments)

	require.Len(t, threads, 2)
	assert.Equal(t, 1, threads[0].ID)
	assert.Equal(t, 2, threads[1].ID)

	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, 5, threads[0].Replies[0].ID)
	assert.Equal(t, 3, threads[0].Replies[1].ID)

	require.Len(t, threads[0].Replies[1].Replies, 1)
	assert.Equal(t, 4, threads[0].Replies[1].Replies[0].ID)
	assert.Empty(t, threads[1].Replies)
}

func TestNestComments_HidesDeletedContent(t *testing.T) {
	comments := []Comment{
		{ID: 1, Content: "secret", IsDeleted: true},
		{ID: 2, Content: "still here", ParentID: intPtr(1)},
	}

	threads := NestComments(comments)

	require.Len(t, threads, 1)
	assert.True(t, threads[0].IsDeleted)
	assert.Equal(t, "", threads[0].Content)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "still here", threads[0].Replies[0].Content)
}

func TestNestComments_Empty(t *testing.T) {
	threads := NestComments(nil)
	assert.NotNil(t, threads)
	assert.Empty(t, threads)
}
