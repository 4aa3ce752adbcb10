package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError records err on span and marks the span failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// Finish ends span, recording err first when it is non-nil.
func Finish(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if err != nil {
		SetError(span, err, attrs...)
	} else {
		span.SetAttributes(attrs...)
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
