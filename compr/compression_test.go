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

package compr

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstd(t *testing.T) {
	t.Parallel()

	ctl := bytes.Repeat([]byte("foo"), 1000)
	cmp := EncodeZstd(ctl, nil)
	assert.Less(t, len(cmp), len(ctl))
	out, err := DecodeZstd(cmp, nil)
	require.NoError(t, err)
	assert.Equal(t, ctl, out)

	// appends to dst
	out, err = DecodeZstd(cmp, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, append([]byte("x"), ctl...), out)

	// streaming decode of the same frame
	rc, err := NewReader("zstd", bytes.NewReader(cmp))
	require.NoError(t, err)
	out, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, ctl, out)

	_, err = DecodeZstd(ctl, nil)
	require.Error(t, err)
}

func TestNewReader(t *testing.T) {
	t.Parallel()

	ctl := []byte("for $c in (mean_summer_airtemp) return encode($c, \"png\")")
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(ctl)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	for _, enc := range []string{"gzip", " X-GZIP "} {
		rc, err := NewReader(enc, bytes.NewReader(gz.Bytes()))
		require.NoError(t, err)
		out, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, ctl, out)
		require.NoError(t, rc.Close())
	}

	for _, enc := range []string{"", "identity"} {
		rc, err := NewReader(enc, bytes.NewReader(ctl))
		require.NoError(t, err)
		out, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, ctl, out)
	}

	_, err = NewReader("br", bytes.NewReader(ctl))
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = NewReader("gzip", bytes.NewReader(ctl))
	require.Error(t, err)
}
