package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	s := New(":3000", http.NotFoundHandler())

	assert.Equal(t, ":3000", s.Addr)
	assert.Equal(t, 5*time.Second, s.ReadHeaderTimeout)
	assert.Equal(t, 35*time.Second, s.WriteTimeout)
}

func TestWithHandlerTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, New(":0", nil, WithHandlerTimeout(10*time.Second)).WriteTimeout)
	assert.Equal(t, 35*time.Second, New(":0", nil, WithHandlerTimeout(0)).WriteTimeout)
}
