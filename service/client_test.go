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
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rasdaman/wcps/auth"
	"github.com/rasdaman/wcps/expr"
)

const exceptionReportXML = `<?xml version="1.0" encoding="UTF-8"?>
<ows:ExceptionReport version="2.0.0" xmlns:ows="http://www.opengis.net/ows/2.0">
  <ows:Exception exceptionCode="WcpsError">
    <ows:ExceptionText>Coverage 'Foo' does not exist.</ows:ExceptionText>
  </ows:Exception>
</ows:ExceptionReport>`

// wcpsServer answers every request with the given
// content type and body, and records the last query.
func wcpsServer(t *testing.T, contentType, body string) (*httptest.Server, *atomic.Value, *atomic.Int32) {
	t.Helper()
	var last atomic.Value
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if q.Get("service") != "WCS" || q.Get("version") != "2.0.1" || q.Get("request") != "ProcessCoverages" {
			http.Error(w, "bad request parameters", http.StatusBadRequest)
			return
		}
		last.Store(q.Get("query"))
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &last, &hits
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, endpoint := range []string{"", "ows.rasdaman.org", "ftp://host/ows", "http://"} {
		_, err := New(endpoint)
		require.ErrorIs(t, err, ErrInvalidEndpoint, endpoint)
	}

	c, err := New("https://ows.rasdaman.org/rasdaman/ows")
	require.NoError(t, err)
	assert.Equal(t, "https://ows.rasdaman.org/rasdaman/ows", c.Endpoint())
	assert.Equal(t,
		"https://ows.rasdaman.org/rasdaman/ows?service=WCS&version=2.0.1&request=ProcessCoverages&query=for+%24c+in+%28A%29+return+1",
		c.QueryURL("for $c in (A) return 1"))

	c, err = New("http://localhost/ows?token=x")
	require.NoError(t, err)
	assert.Contains(t, c.QueryURL("1"), "ows?token=x&service=WCS")
}

func TestExecuteScalar(t *testing.T) {
	t.Parallel()

	srv, last, _ := wcpsServer(t, "text/plain", "42")
	c, err := New(srv.URL)
	require.NoError(t, err)

	res, err := c.Execute(context.Background(), "for $c in (A) return count($c > 0)")
	require.NoError(t, err)
	assert.Equal(t, Scalar, res.Type)
	assert.Equal(t, int64(42), res.Value)
	assert.Equal(t, "for $c in (A) return count($c > 0)", last.Load())
}

func TestExecuteNode(t *testing.T) {
	t.Parallel()

	srv, last, _ := wcpsServer(t, "image/png", "\x89PNG")
	c, err := New(srv.URL)
	require.NoError(t, err)

	q := expr.Cube("AvgLandTemp").Add(1).Encode("PNG")
	want, err := expr.Render(q)
	require.NoError(t, err)

	res, err := c.Execute(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, Array, res.Type)
	assert.Equal(t, "image/png", res.ContentType)
	b, ok := res.Bytes()
	require.True(t, ok)
	assert.Equal(t, []byte("\x89PNG"), b)
	assert.Equal(t, want, last.Load())
}

func TestExecuteInvalidQuery(t *testing.T) {
	t.Parallel()

	srv, _, hits := wcpsServer(t, "text/plain", "1")
	c, err := New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Execute(ctx, "  ")
	require.ErrorIs(t, err, ErrInvalidQuery)
	_, err = c.Execute(ctx, 42)
	require.ErrorIs(t, err, ErrInvalidQuery)
	// an incomplete builder never reaches the server
	_, err = c.Execute(ctx, expr.Cube("A").Scale())
	require.ErrorIs(t, err, expr.ErrMissingConfiguration)
	_, err = c.Download(ctx, expr.Add(1, 2), &bytes.Buffer{})
	require.ErrorIs(t, err, expr.ErrNoDatasetReferenced)
	assert.Zero(t, hits.Load())
}

func TestServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(exceptionReportXML))
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "for $c in (Foo) return 1")
	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "WcpsError", se.Code)
	assert.Equal(t, "WcpsError: Coverage 'Foo' does not exist.", se.Text)
	assert.Contains(t, err.Error(), "404")
}

func TestServerErrorUnparsed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal failure", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Download(context.Background(), "for $c in (A) return 1", &bytes.Buffer{})
	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Status)
	assert.Empty(t, se.Code)
	assert.Equal(t, "internal failure", se.Text)
}

func TestParseServerError(t *testing.T) {
	t.Parallel()

	body := `<ows:ExceptionReport xmlns:ows="http://www.opengis.net/ows/2.0">
<ows:Exception exceptionCode="InvalidRequest"><ows:ExceptionText>first</ows:ExceptionText></ows:Exception>
<ows:Exception><ows:ExceptionText>second</ows:ExceptionText></ows:Exception>
</ows:ExceptionReport>`
	e := parseServerError(400, []byte(body))
	assert.Equal(t, "InvalidRequest", e.Code)
	assert.Equal(t, "InvalidRequest: first\nsecond", e.Text)

	e = parseServerError(502, nil)
	assert.Equal(t, "wcps server error: http status 502", e.Error())
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rasguest" || pass != "rasguest" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte("t"))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Execute(context.Background(), "1")
	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Status)

	c, err = New(srv.URL, WithCredentials(auth.Basic("rasguest", "rasguest")))
	require.NoError(t, err)
	res, err := c.Execute(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, true, res.Value)
}

func TestDownloadEncoded(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("tiff"), 4096)
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	zs := enc.EncodeAll(payload, nil)

	bodies := map[string][]byte{"gzip": gz.Bytes(), "zstd": zs, "": payload}
	for name, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Accept-Encoding"), "zstd")
			w.Header().Set("Content-Type", "image/tiff")
			if name != "" {
				w.Header().Set("Content-Encoding", name)
			}
			_, _ = w.Write(body)
		}))
		c, err := New(srv.URL)
		require.NoError(t, err)

		var out bytes.Buffer
		n, err := c.Download(context.Background(), "for $c in (A) return encode($c, \"tiff\")", &out)
		srv.Close()
		require.NoError(t, err, name)
		assert.Equal(t, int64(len(payload)), n, name)
		assert.Equal(t, payload, out.Bytes(), name)
	}
}

func TestExecuteCache(t *testing.T) {
	t.Parallel()

	srv, _, hits := wcpsServer(t, "text/plain", "{1, 2.5, f}")
	c, err := New(srv.URL, WithCache(NewCache(4)))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := c.Execute(context.Background(), "for $c in (A) return avg($c)")
		require.NoError(t, err)
		assert.Equal(t, MultibandScalar, res.Type)
		assert.Equal(t, []any{int64(1), 2.5, false}, res.Value)
	}
	assert.Equal(t, int32(1), hits.Load())

	// downloads always reach the server
	_, err = c.Download(context.Background(), "for $c in (A) return avg($c)", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCache(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewCache(0))

	c := NewCache(2)
	a, b, d := QueryFingerprint("a"), QueryFingerprint("b"), QueryFingerprint("d")
	assert.NotEqual(t, a, b)
	assert.Len(t, a.String(), 64)

	c.Put(a, "text/plain", []byte("1"))
	c.Put(b, "image/png", bytes.Repeat([]byte{0}, 1024))
	c.Put(a, "text/plain", []byte("2"))
	assert.Equal(t, 2, c.Len())

	ct, body, ok := c.Get(a)
	require.True(t, ok)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, []byte("2"), body)

	c.Put(d, "text/plain", []byte("3"))
	assert.Equal(t, 2, c.Len())
	_, _, ok = c.Get(a)
	assert.False(t, ok, "oldest entry evicted")
	_, body, ok = c.Get(b)
	require.True(t, ok)
	assert.Len(t, body, 1024)
}

func TestCacheCorruptEntry(t *testing.T) {
	t.Parallel()

	c := NewCache(2)
	a, b, d := QueryFingerprint("a"), QueryFingerprint("b"), QueryFingerprint("d")
	c.Put(a, "text/plain", []byte("1"))
	c.lock.Lock()
	c.entries[a] = cacheEntry{contentType: "text/plain", body: []byte("not zstd")}
	c.lock.Unlock()
	_, _, ok := c.Get(a)
	assert.False(t, ok, "undecodable entry is a miss")
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.order)

	c.Put(b, "text/plain", []byte("2"))
	c.Put(d, "text/plain", []byte("3"))
	c.Put(a, "text/plain", []byte("4"))
	assert.Equal(t, 2, c.Len())
	_, body, ok := c.Get(a)
	require.True(t, ok, "re-added entry must not be evicted first")
	assert.Equal(t, []byte("4"), body)
	_, _, ok = c.Get(b)
	assert.False(t, ok, "oldest entry evicted")
	assert.Len(t, c.order, 2)
}

func TestTimeouts(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := New(srv.URL, WithTimeouts(0, 50*time.Millisecond))
	require.NoError(t, err)
	_, err = c.Execute(context.Background(), "1")
	require.Error(t, err)
}

func TestTelemetry(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	srv, _, _ := wcpsServer(t, "application/json", `[1, 2, 3]`)
	c, err := New(srv.URL, WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	res, err := c.Execute(context.Background(), "for $c in (A) return encode($c, \"json\")")
	require.NoError(t, err)
	assert.Equal(t, JSON, res.Type)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, res.Value)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "wcps.execute", spans[0].Name)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	assert.True(t, names["wcps.query.count"])
	assert.True(t, names["wcps.query.duration"])

	require.NoError(t, tp.Shutdown(context.Background()))
	require.NoError(t, mp.Shutdown(context.Background()))
}
