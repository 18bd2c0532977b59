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
	"encoding/xml"
	"fmt"
	"strings"
)

// ServerError is returned for a response with
// a non-2xx status. Code is the exceptionCode
// of the first ows:Exception, if any. Text is the
// human-readable message, or the raw body when
// it is not an ows:ExceptionReport.
type ServerError struct {
	Status int
	Code   string
	Text   string
}

func (e *ServerError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("wcps server error: http status %d", e.Status)
	}
	return fmt.Sprintf("wcps server error (http status %d): %s", e.Status, e.Text)
}

type exceptionReport struct {
	XMLName    xml.Name       `xml:"http://www.opengis.net/ows/2.0 ExceptionReport"`
	Exceptions []owsException `xml:"http://www.opengis.net/ows/2.0 Exception"`
}

type owsException struct {
	Code  string   `xml:"exceptionCode,attr"`
	Texts []string `xml:"http://www.opengis.net/ows/2.0 ExceptionText"`
}

// parseServerError builds a ServerError from
// an ows:ExceptionReport. Each exception becomes
// one line "code: text".
func parseServerError(status int, body []byte) *ServerError {
	e := &ServerError{Status: status}
	var rep exceptionReport
	if err := xml.Unmarshal(body, &rep); err != nil {
		e.Text = strings.TrimSpace(string(body))
		return e
	}
	lines := make([]string, 0, len(rep.Exceptions))
	for i := range rep.Exceptions {
		ex := &rep.Exceptions[i]
		if e.Code == "" {
			e.Code = ex.Code
		}
		line := ""
		if ex.Code != "" {
			line = ex.Code + ": "
		}
		lines = append(lines, line+strings.Join(ex.Texts, ""))
	}
	e.Text = strings.Join(lines, "\n")
	return e
}
