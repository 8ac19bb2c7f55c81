package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_HasResult(t *testing.T) {
	q := Query{ID: "q1", Text: "what is X", Results: []string{"c1", "c2"}}

	assert.True(t, q.HasResult("c1"))
	assert.True(t, q.HasResult("c2"))
	assert.False(t, q.HasResult("c3"))

	empty := Query{}
	assert.False(t, empty.HasResult("c1"))
}
