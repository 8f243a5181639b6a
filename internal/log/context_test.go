// SPDX-License-Identifier: MIT
package log

import (
	"context"
	"testing"
)

func TestContextWithRequestID(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		requestID string
		want      string
	}{
		{
			name:      "nil context",
			ctx:       nil,
			requestID: "test-id-123",
			want:      "test-id-123",
		},
		{
			name:      "background context",
			ctx:       context.Background(),
			requestID: "req-456",
			want:      "req-456",
		},
		{
			name:      "empty request ID",
			ctx:       context.Background(),
			requestID: "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := ContextWithRequestID(tt.ctx, tt.requestID)
			if got := RequestIDFromContext(ctx); got != tt.want {
				t.Errorf("RequestIDFromContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextWithJobID(t *testing.T) {
	ctx := ContextWithJobID(context.Background(), "job-789")
	if got := JobIDFromContext(ctx); got != "job-789" {
		t.Errorf("JobIDFromContext() = %q, want %q", got, "job-789")
	}

	if got := JobIDFromContext(context.Background()); got != "" {
		t.Errorf("JobIDFromContext() on empty context = %q, want empty", got)
	}
}

func TestFromContextNeverNil(t *testing.T) {
	if FromContext(nil) == nil {
		t.Fatal("FromContext(nil) returned nil logger")
	}
	ctx := ContextWithRequestID(context.Background(), "rid")
	if FromContext(ctx) == nil {
		t.Fatal("FromContext(ctx) returned nil logger")
	}
}
