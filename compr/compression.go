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

// Package compr decodes compressed HTTP response
// bodies and packs cached query results.
package compr

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is the value of the
// Accept-Encoding request header listing
// the encodings NewReader understands.
const AcceptEncoding = "zstd, gzip"

// ErrUnsupported is returned by NewReader
// for an unknown content encoding.
var ErrUnsupported = errors.New("unsupported content encoding")

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	// EncodeAll/DecodeAll calls may run concurrently;
	// let the decoder use every available core
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
}

// EncodeZstd appends a single zstd frame
// holding src to dst.
func EncodeZstd(src, dst []byte) []byte {
	return zstdEncoder.EncodeAll(src, dst)
}

// DecodeZstd appends the decompressed
// zstd frames in src to dst.
func DecodeZstd(src, dst []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(src, dst)
}

// NewReader wraps r in a decoder for the given
// Content-Encoding. An empty encoding or "identity"
// returns r unchanged.
func NewReader(encoding string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("compr: gzip: %w", err)
		}
		return zr, nil
	case "zstd":
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("compr: zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupported, encoding)
}
