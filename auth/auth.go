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

// Package auth describes the credential
// providers that the WCPS client uses to
// authenticate requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// ErrExpired is returned when a provider
// holds credentials that have expired
// and cannot be refreshed.
var ErrExpired = errors.New("credentials expired")

// Provider is the interface through which the
// client obtains the credentials for a request.
// The purpose of Provider is to hide where the
// credentials come from (environment, file or
// a token endpoint) and when they are refreshed.
type Provider interface {
	Credentials(ctx context.Context) (*Credentials, error)
}

// Credentials hold either a user name and
// password (HTTP Basic) or a bearer token.
// The zero value is anonymous access.
type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`

	// Expires is honored only when CanExpire is set
	Expires   time.Time `json:"expires,omitempty"`
	CanExpire bool      `json:"can_expire,omitempty"`
}

// Anonymous returns true if c
// carries no credentials at all.
func (c *Credentials) Anonymous() bool {
	return c == nil || (c.Username == "" && c.Token == "")
}

// Expired indicates whether or
// not the credentials have expired.
func (c *Credentials) Expired() bool {
	return c.CanExpire && c.Expires.Before(time.Now())
}

// Apply sets the Authorization header of req.
// A token takes precedence over a user name.
func (c *Credentials) Apply(req *http.Request) {
	switch {
	case c.Anonymous():
	case c.Token != "":
		req.Header.Set("Authorization", "Bearer "+c.Token)
	default:
		req.SetBasicAuth(c.Username, c.Password)
	}
}

// Static is a Provider backed by
// a single set of credentials.
type Static struct {
	Creds Credentials
}

// Credentials implements Provider.Credentials
func (s *Static) Credentials(ctx context.Context) (*Credentials, error) {
	if s.Creds.Expired() {
		return nil, fmt.Errorf("%w at %s", ErrExpired, s.Creds.Expires)
	}
	c := s.Creds
	return &c, nil
}

// Basic returns a Provider for HTTP Basic credentials.
func Basic(user, password string) Provider {
	return &Static{Creds: Credentials{Username: user, Password: password}}
}

// Bearer returns a Provider for a bearer token.
func Bearer(token string) Provider {
	return &Static{Creds: Credentials{Token: token}}
}

// Parse will create a provider based on the
// given credential string.
//
// An empty string reads the environment
// (see NewEnvProvider). It uses a token endpoint
// when a http(s):// prefix is detected and otherwise
// the string is interpreted as a file name.
func Parse(spec string) (Provider, error) {
	if spec == "" {
		return NewEnvProvider()
	}
	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
		return FromEndPoint(spec)
	}
	return FromFile(spec)
}

// FromEndPoint creates a provider that fetches
// credentials from a token endpoint.
// See also Endpoint.
func FromEndPoint(uri string) (Provider, error) {
	return &Endpoint{
		URI: uri,
	}, nil
}

// FromFile creates a provider that reads the
// credentials from the given JSON or YAML file.
func FromFile(fileName string) (Provider, error) {
	// for clarity, allow a file:// prefix
	fileName = strings.TrimPrefix(fileName, "file://")
	buf, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	var static Static
	if err := yaml.Unmarshal(buf, &static.Creds); err != nil {
		return nil, fmt.Errorf("auth: reading %s: %w", fileName, err)
	}
	if static.Creds.Username == "" && static.Creds.Password != "" {
		return nil, fmt.Errorf("auth: %s has a password but no username", fileName)
	}
	return &static, nil
}
