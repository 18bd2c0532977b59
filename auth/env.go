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
	"os"
)

// NewEnvProvider returns a provider for the
// credentials in the WCPS_TOKEN or the
// WCPS_USERNAME and WCPS_PASSWORD variables.
// Without either the provider is anonymous.
func NewEnvProvider() (Provider, error) {
	if token := os.Getenv("WCPS_TOKEN"); token != "" {
		return Bearer(token), nil
	}
	user := os.Getenv("WCPS_USERNAME")
	if user == "" {
		return &Static{}, nil
	}
	return Basic(user, os.Getenv("WCPS_PASSWORD")), nil
}
