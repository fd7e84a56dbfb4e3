// Copyright 2026 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package util contains helpers shared by the ystore packages: error
// accumulation and debug tracing of schema and data tree walks.
package util

import "fmt"

// Errors is a slice of error.
type Errors []error

// Error implements the error#Error method.
func (e Errors) Error() string {
	return ToString([]error(e))
}

// String implements the stringer#String method.
func (e Errors) String() string {
	return e.Error()
}

// AppendErr appends err to errors if it is not nil and returns the result.
func AppendErr(errors []error, err error) []error {
	if err == nil {
		if len(errors) == 0 {
			return nil
		}
		return errors
	}
	return append(errors, err)
}

// AppendErrs appends newErrs to errors and returns the result. nil entries
// of newErrs are dropped.
func AppendErrs(errors []error, newErrs []error) []error {
	for _, e := range newErrs {
		errors = AppendErr(errors, e)
	}
	return errors
}

// PrefixErrors prefixes each error within the supplied Errors slice with the
// string pfx.
func PrefixErrors(errs Errors, pfx string) Errors {
	var nerr Errors
	for _, e := range errs {
		nerr = AppendErr(nerr, fmt.Errorf("%s: %v", pfx, e))
	}
	return nerr
}

// UniqueErrors returns the unique errors from the supplied Errors slice,
// keeping the first occurrence of each error text.
func UniqueErrors(errs Errors) Errors {
	seen := map[string]bool{}
	var out Errors
	for _, e := range errs {
		if e == nil || seen[e.Error()] {
			continue
		}
		seen[e.Error()] = true
		out = append(out, e)
	}
	return out
}

// ToString returns a string representation of errors.
func ToString(errors []error) string {
	var out string
	var n int
	for _, e := range errors {
		if e == nil {
			continue
		}
		if n != 0 {
			out += ", "
		}
		out += e.Error()
		n++
	}
	return out
}
