package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Calif…", Truncate("California", 6))
	assert.Equal(t, "Ohio", Truncate("Ohio", 6))
	assert.Equal(t, "", Truncate("Ohio", 0))
	assert.Equal(t, 6, Width(Truncate("Universität Wien", 6)))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "   12", PadLeft("12", 5))
	assert.Equal(t, "12   ", PadRight("12", 5))
	assert.Equal(t, "12345", PadLeft("12345", 5))
	assert.Equal(t, "12…", PadRight("12345", 3))
}
