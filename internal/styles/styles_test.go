package styles

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStylesArePlainForNonTerminals(t *testing.T) {
	s := New(&bytes.Buffer{})

	assert.Equal(t, "[wt - main]", s.SECTION("[wt - main]"))
	assert.Equal(t, "Your commits", s.HEADER("Your commits"))
	assert.Equal(t, "hint", s.DIM("hint"))
	assert.Equal(t, "oops", s.ERROR("oops"))
}
