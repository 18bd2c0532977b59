// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package service

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rasdaman/wcps/service"

type instruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// newInstruments falls back to the
// global providers when tp or mp is nil.
func newInstruments(tp trace.TracerProvider, mp metric.MeterProvider) *instruments {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	in := &instruments{tracer: tp.Tracer(instrumentationName)}

	var err error
	in.requests, err = meter.Int64Counter(
		"wcps.query.count",
		metric.WithDescription("Total number of WCPS queries sent"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		in.requests, _ = meter.Int64Counter("wcps.query.count")
	}
	in.duration, err = meter.Float64Histogram(
		"wcps.query.duration",
		metric.WithDescription("Duration of WCPS queries in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		in.duration, _ = meter.Float64Histogram("wcps.query.duration")
	}
	return in
}

func (in *instruments) start(ctx context.Context, op, id, query string) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("wcps.request_id", id),
		attribute.String("wcps.query.fingerprint", QueryFingerprint(query).String()),
		attribute.Int("wcps.query.length", len(query)),
	))
}

func (in *instruments) finish(ctx context.Context, span trace.Span, op string, status int, elapsed time.Duration, err error) {
	defer span.End()
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case status >= 400:
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	attrs := metric.WithAttributes(
		attribute.String("wcps.operation", op),
		attribute.Int("http.status_code", status),
		attribute.Bool("error", err != nil),
	)
	in.requests.Add(ctx, 1, attrs)
	in.duration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}
