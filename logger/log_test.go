package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	assert := assert.New(t)

	out := filterOutput("hello from qubicly %d", time.Now().UnixNano())
	assert.Contains(out, "qubicly")

	err := SetFilter("dejavu")
	assert.Nil(err)
	out = filterOutput("hello from qubicly %d", time.Now().UnixNano())
	assert.NotContains(out, "qubicly")
	out = filterOutput("DejaVu from qubicly %d", time.Now().UnixNano())
	assert.NotContains(out, "qubicly")
	out = filterOutput("dejavu from qubicly %d", time.Now().UnixNano())
	assert.Contains(out, "qubicly")

	err = SetFilter("(?i)dejavu")
	assert.Nil(err)
	out = filterOutput("hello from qubicly %d", time.Now().UnixNano())
	assert.NotContains(out, "qubicly")
	out = filterOutput("DejaVu from qubicly %d", time.Now().UnixNano())
	assert.Contains(out, "qubicly")

	err = SetFilter("(?i)dejavu|qubicly")
	assert.Nil(err)
	out = filterOutput("hello from qubicly %d", time.Now().UnixNano())
	assert.Contains(out, "qubicly")
	out = filterOutput("tick from elsewhere %d", time.Now().UnixNano())
	assert.NotContains(out, "qubicly")

	la := limiterAvailable("hello from qubicly")
	assert.True(la)
	SetLimiter(10)
	for i := 0; i < 10; i++ {
		la := limiterAvailable("hello from qubicly")
		assert.True(la)
	}
	la = limiterAvailable("hello from qubicly")
	assert.False(la)
	la = limiterAvailable("hello from qubicly again")
	assert.True(la)
}
