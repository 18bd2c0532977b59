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

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

var _ Provider = &Endpoint{}

// Endpoint is a Provider that fetches
// credentials from a remote HTTP(s) endpoint.
// The endpoint is expected to return a JSON
// object matching the structure of Credentials.
//
// Credentials that can expire are cached
// until they do; others are cached forever.
type Endpoint struct {
	URI    string
	Client *http.Client

	lock   sync.Mutex
	cached *Credentials
}

func (e *Endpoint) client() *http.Client {
	if e.Client == nil {
		return http.DefaultClient
	}
	return e.Client
}

// Credentials implements Provider.Credentials
func (e *Endpoint) Credentials(ctx context.Context) (*Credentials, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.cached == nil || e.cached.Expired() {
		c, err := e.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if c.Expired() {
			return nil, fmt.Errorf("auth: endpoint returned %w", ErrExpired)
		}
		e.cached = c
	}
	c := *e.cached
	return &c, nil
}

func (e *Endpoint) fetch(ctx context.Context) (*Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := e.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		// don't read an arbitrarily large response
		text := make([]byte, 1024)
		n, _ := io.ReadFull(res.Body, text)
		return nil, fmt.Errorf("auth: endpoint code %d (%q)", res.StatusCode, text[:n])
	}
	c := new(Credentials)
	if err := json.NewDecoder(res.Body).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}
