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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		contentType string
		body        string
		kind        ResultType
		value       any
	}{
		{"text/plain", "42", Scalar, int64(42)},
		{"", " -7 ", Scalar, int64(-7)},
		{"text/plain; charset=utf-8", "3.25", Scalar, 3.25},
		{"text/plain", "t", Scalar, true},
		{"text/plain", "f", Scalar, false},
		{"text/plain", "{5}", Scalar, int64(5)},
		{"text/plain", "{1,2,3}", MultibandScalar, []any{int64(1), int64(2), int64(3)}},
		{"text/plain", "{ 0.5, 1e3 }", MultibandScalar, []any{0.5, 1000.0}},
		{"application/json", `{"a": [1, true]}`, JSON, map[string]any{"a": []any{1.0, true}}},
		{"application/json; charset=utf-8", `"x"`, JSON, "x"},
		{"image/png", "\x89PNG", Array, []byte("\x89PNG")},
		{"text/csv", "{1,2}", Array, []byte("{1,2}")},
	}
	for i := range testcases {
		tc := &testcases[i]
		res, err := Classify(tc.contentType, []byte(tc.body))
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, tc.kind, res.Type, "case %d", i)
		assert.Equal(t, tc.value, res.Value, "case %d", i)
		assert.Equal(t, tc.contentType, res.ContentType)
	}
}

func TestClassifyNaN(t *testing.T) {
	t.Parallel()

	res, err := Classify("text/plain", []byte("nan"))
	require.NoError(t, err)
	f, ok := res.Value.(float64)
	require.True(t, ok)
	assert.True(t, math.IsNaN(f))
}

func TestClassifyErrors(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "abc", "{1, x}", "true"} {
		_, err := Classify("text/plain", []byte(body))
		require.ErrorIs(t, err, ErrUnparseableScalar, body)
	}
	_, err := Classify("application/json", []byte("{"))
	require.Error(t, err)
}

func TestResultType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scalar", Scalar.String())
	assert.Equal(t, "multiband_scalar", MultibandScalar.String())
	assert.Equal(t, "json", JSON.String())
	assert.Equal(t, "array", Array.String())
	assert.Equal(t, "ResultType(9)", ResultType(9).String())
}
