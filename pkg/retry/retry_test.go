package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Do(t *testing.T) {
	errFlaky := errors.New("flaky")

	tests := []struct {
		name      string
		attempts  int
		failFirst int
		wantCalls int
		wantErr   bool
	}{
		{"first try succeeds", 3, 0, 1, false},
		{"succeeds on last attempt", 3, 2, 3, false},
		{"exhausted", 3, 5, 3, true},
		{"zero attempts runs once", 0, 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slept []time.Duration
			p := Policy{
				Attempts: tt.attempts,
				Delay:    5 * time.Second,
				Sleep: func(_ context.Context, d time.Duration) error {
					slept = append(slept, d)
					return nil
				},
			}

			calls := 0
			err := p.Do(context.Background(), func(context.Context) error {
				calls++
				if calls <= tt.failFirst {
					return errFlaky
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			assert.Len(t, slept, tt.wantCalls-1)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrExhausted)
			assert.ErrorIs(t, err, errFlaky)

			var exhausted *ExhaustedError
			require.ErrorAs(t, err, &exhausted)
			assert.Equal(t, tt.wantCalls, exhausted.Attempts)
		})
	}
}

func TestPolicy_DoPermanent(t *testing.T) {
	errAuth := errors.New("auth expired")
	p := Policy{Attempts: 5, Sleep: NoSleep}

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(errAuth)
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, errAuth, err)
	assert.NotErrorIs(t, err, ErrExhausted)
}

func TestPolicy_DoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		Attempts: 3,
		Delay:    time.Hour,
		Sleep:    ContextSleep,
		OnRetry:  func(int, error) { cancel() },
	}

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		return errors.New("down")
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestExhaustedError_Message(t *testing.T) {
	err := &ExhaustedError{Attempts: 3, Last: errors.New("timeout")}
	assert.Equal(t, "retry attempts exhausted after 3 attempts: timeout", err.Error())
}

func TestNew(t *testing.T) {
	p := New(3, 5*time.Second)
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, 5*time.Second, p.Delay)
	assert.NotNil(t, p.Sleep)
}
