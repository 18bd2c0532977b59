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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ResultType is the kind of value a query produced.
type ResultType int

const (
	// Scalar is a single number or boolean.
	Scalar ResultType = iota
	// MultibandScalar is a list of scalars,
	// one per band, e.g. { 1, 2, 3 }.
	MultibandScalar
	// JSON is a decoded JSON document.
	JSON
	// Array is an encoded array (TIFF, PNG, netCDF, CSV ...)
	// returned as raw bytes.
	Array
)

func (r ResultType) String() string {
	switch r {
	case Scalar:
		return "scalar"
	case MultibandScalar:
		return "multiband_scalar"
	case JSON:
		return "json"
	case Array:
		return "array"
	}
	return fmt.Sprintf("ResultType(%d)", int(r))
}

// ErrUnparseableScalar is returned when a text
// response does not hold a number or boolean.
var ErrUnparseableScalar = errors.New("cannot parse scalar")

// Result is a classified query result.
//
// Value holds a bool, int64 or float64 for Scalar,
// a []any of those for MultibandScalar, the output
// of json.Unmarshal into an any for JSON, and
// a []byte for Array.
type Result struct {
	Type        ResultType
	Value       any
	ContentType string
}

// Bytes returns the raw value of an Array result.
func (r *Result) Bytes() ([]byte, bool) {
	b, ok := r.Value.([]byte)
	return b, ok
}

// Classify turns a response body into a Result
// based on its content type.
func Classify(contentType string, body []byte) (*Result, error) {
	res := &Result{ContentType: contentType}
	switch {
	case strings.Contains(contentType, "application/json"):
		if err := json.Unmarshal(body, &res.Value); err != nil {
			return nil, fmt.Errorf("decoding json result: %w", err)
		}
		res.Type = JSON
	case contentType == "" || strings.Contains(contentType, "text/plain"):
		text := string(body)
		if !strings.Contains(text, "{") {
			v, err := parseScalar(text)
			if err != nil {
				return nil, err
			}
			res.Type, res.Value = Scalar, v
			return res, nil
		}
		text = strings.NewReplacer("{", "", "}", "").Replace(text)
		parts := strings.Split(text, ",")
		bands := make([]any, len(parts))
		for i := range parts {
			v, err := parseScalar(parts[i])
			if err != nil {
				return nil, err
			}
			bands[i] = v
		}
		if len(bands) == 1 {
			res.Type, res.Value = Scalar, bands[0]
			return res, nil
		}
		res.Type, res.Value = MultibandScalar, bands
	default:
		res.Type, res.Value = Array, body
	}
	return res, nil
}

// parseScalar parses a boolean (t or f),
// an integer or a float, in that order.
func parseScalar(s string) (any, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "t":
		return true, nil
	case "f":
		return false, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w from text response %q", ErrUnparseableScalar, s)
}
