package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.interrupted)
		})
	}
}

func TestInterrupt_CancelsOnce(t *testing.T) {
	var output bytes.Buffer
	handler := NewInterruptHandler(&output)

	ctx, stop := handler.HandleInterrupts(context.Background(), "Year report")
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	handler.interrupt()
	handler.interrupt()

	<-ctx.Done()
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(output.String(), "Year report interrupted!"))
}

func TestInterrupt_StopReleasesContext(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{})

	ctx, stop := handler.HandleInterrupts(context.Background(), "Import")
	stop()
	stop()

	require.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, handler.WasInterrupted())
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		expected  string
	}{
		{name: "named operation", operation: "Import", expected: "Import interrupted!"},
		{name: "unnamed operation", operation: "", expected: "Operation interrupted!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := &InterruptHandler{writer: &output, operation: tt.operation}

			handler.showInterruptMessage()

			assert.Contains(t, output.String(), tt.expected)
			assert.Contains(t, output.String(), "nothing needs to be resumed")
		})
	}
}
