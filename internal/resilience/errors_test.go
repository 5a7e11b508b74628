package resilience

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified_error", New(KindBilling, eris.New("insufficient credit")), KindBilling},
		{"wrapped_classified", eris.Wrap(New(KindBadRequest, eris.New("bad image")), "outer"), KindBadRequest},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"connection_refused", syscall.ECONNREFUSED, KindNetwork},
		{"dns_failure", errors.New("dial tcp: lookup api.example.com: no such host"), KindNetwork},
		{"plain_error", errors.New("something broke"), KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindMisconfiguredEnv},
		{403, KindMisconfiguredEnv},
		{402, KindBilling},
		{408, KindTimeout},
		{504, KindTimeout},
		{429, KindUpstream},
		{500, KindUpstream},
		{503, KindUpstream},
		{400, KindBadRequest},
		{404, KindBadRequest},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStatus(tt.status), "status %d", tt.status)
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(KindTimeout, errors.New("deadline"))))
	assert.True(t, Retryable(New(KindUpstream, errors.New("502"))))
	assert.True(t, Retryable(New(KindNetwork, errors.New("reset"))))
	assert.False(t, Retryable(New(KindBadRequest, errors.New("bad image"))))
	assert.False(t, Retryable(New(KindBilling, errors.New("no credit"))))
	assert.False(t, Retryable(New(KindMisconfiguredEnv, errors.New("bad key"))))
	assert.False(t, Retryable(nil))
}

func TestErrorUnwrap(t *testing.T) {
	inner := eris.New("root cause")
	err := New(KindUpstream, inner)
	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, "upstream_error: root cause", err.Error())
}
