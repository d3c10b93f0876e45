// Package detection wraps the external object detector behind a small
// provider interface and carries its result types.
package detection

import (
	"time"

	"gocv.io/x/gocv"
)

// Provider is the interface to an inference backend. Detect receives a view
// already resized and color-converted to the model input size and must not
// modify it; results come back in model-input coordinates.
type Provider interface {
	Detect(view gocv.Mat) (Batch, error)
	// InputSize reports the fixed model input dimensions, constant for the
	// lifetime of the provider.
	InputSize() (width, height int)
	Close() error
	Info() ProviderInfo
}

// ProviderInfo describes the active inference backend.
type ProviderInfo struct {
	Backend  string
	Device   string
	InitTime time.Duration
}
