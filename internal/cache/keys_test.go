package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	t.Run("WithoutParams", func(t *testing.T) {
		key := GenerateCacheKey("quiz", "document", "abc")
		assert.Equal(t, "quizgen:quiz:document:abc", key)
	})

	t.Run("WithParams", func(t *testing.T) {
		key := GenerateCacheKey("quiz", "list", "book_1", "10", "0")
		assert.Equal(t, "quizgen:quiz:list:book_1:10_0", key)
	})
}

func TestQuizKey(t *testing.T) {
	assert.Equal(t, "quizgen:quiz:document:01HZXID", QuizKey("01HZXID"))
}
