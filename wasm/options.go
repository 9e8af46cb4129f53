package wasm

import "go.uber.org/zap"

type decodeOptions struct {
	logger *zap.Logger
}

// DecodeOption configures DecodeModule.
type DecodeOption func(*decodeOptions)

// WithLogger sets the logger that receives debug output while decoding. The
// default discards all output.
func WithLogger(logger *zap.Logger) DecodeOption {
	return func(o *decodeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
