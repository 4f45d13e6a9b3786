// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// WithTrace returns a logger with trace context injected.
//
// Description:
//
//	Extracts trace_id and span_id from the context and adds them as
//	structured log fields. This enables log correlation when the caller
//	runs batches under an OpenTelemetry tracer. When no valid span
//	context is present, the logger is returned unchanged.
//
// Inputs:
//
//	ctx - Context possibly carrying a span context. May be nil.
//	logger - Base logger to enhance. Must not be nil; falls back to
//	         slog.Default() if it is.
//
// Outputs:
//
//	*slog.Logger - Logger with trace_id and span_id fields added if available.
//
// Example:
//
//	func (o *Orchestrator) process(ctx context.Context) {
//	    logger := logging.WithTrace(ctx, o.logger)
//	    logger.Info("batch started", slog.Int("size", n))
//	}
//
// Thread Safety: Safe for concurrent use.
func WithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		return logger
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}

	return logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}

// WithBatch returns a logger with trace context and batch ID.
//
// Description:
//
//	Combines WithTrace with a batch identifier so log entries from one
//	debounced processing run can be grouped together.
//
// Inputs:
//
//	ctx - Context possibly carrying a span context.
//	logger - Base logger to enhance.
//	batchID - Unique identifier of the batch being processed.
//
// Outputs:
//
//	*slog.Logger - Logger with trace_id, span_id, and batch_id fields.
//
// Thread Safety: Safe for concurrent use.
func WithBatch(ctx context.Context, logger *slog.Logger, batchID string) *slog.Logger {
	return WithTrace(ctx, logger).With(
		slog.String("batch_id", batchID),
	)
}
