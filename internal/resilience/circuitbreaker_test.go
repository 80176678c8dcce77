package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var errDown = errors.New("connection refused")
var errBadInput = errors.New("bad input")

func testSettings() Settings {
	return Settings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      50 * time.Millisecond,
		MinRequests:  2,
		FailureRatio: 0.5,
		IsSuccessful: func(err error) bool { return err == nil || !errors.Is(err, errDown) },
	}
}

func TestCircuitBreaker_TripsOnConnectivityErrors(t *testing.T) {
	cb := NewCircuitBreaker("test-store", "order-service", testSettings(), zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, errDown })
		assert.ErrorIs(t, err, errDown)
	}
	assert.Equal(t, "open", cb.GetState())
	assert.Equal(t, 1, cb.GetStateValue())

	_, err := cb.Execute(func() (interface{}, error) { return "unreachable", nil })
	assert.True(t, Rejected(err))
	assert.Contains(t, FormatError("test-store", err).Error(), "is open")

	time.Sleep(60 * time.Millisecond)
	v, err := cb.Execute(func() (interface{}, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, "closed", cb.GetState())
}

func TestCircuitBreaker_IgnoresDomainErrors(t *testing.T) {
	cb := NewCircuitBreaker("test-domain", "order-service", testSettings(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(func() (interface{}, error) { return nil, errBadInput })
		assert.ErrorIs(t, err, errBadInput)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestRejected(t *testing.T) {
	assert.True(t, Rejected(gobreaker.ErrOpenState))
	assert.True(t, Rejected(gobreaker.ErrTooManyRequests))
	assert.False(t, Rejected(errDown))
	assert.False(t, Rejected(nil))
}
