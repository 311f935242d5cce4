package pimutex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_probesOnce(t *testing.T) {
	m := New()
	assert.Equal(t, int32(1), probes.Load())

	m.Lock()
	m.Unlock()
	_ = New()
	assert.Equal(t, int32(1), probes.Load())
}
