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

// Package rpcerr defines the NETCONF rpc-error records returned when an
// edit is rejected. Each Error carries the error-path, error-message,
// error-tag, error-type and error-severity fields of RFC 6241 section 4.3.
package rpcerr

import (
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Tag is a NETCONF error-tag.
type Tag string

const (
	DataMissing      Tag = "data-missing"
	DataExists       Tag = "data-exists"
	BadElement       Tag = "bad-element"
	UnknownElement   Tag = "unknown-element"
	MissingElement   Tag = "missing-element"
	InvalidValue     Tag = "invalid-value"
	OperationFailed  Tag = "operation-failed"
	MalformedMessage Tag = "malformed-message"
)

// Type is a NETCONF error-type.
type Type string

const (
	Application Type = "application"
	Protocol    Type = "protocol"
)

// Severity is a NETCONF error-severity.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a single rpc-error.
type Error struct {
	Type     Type
	Tag      Tag
	Severity Severity
	// Path is the error-path, in prefix:name form with key predicates,
	// e.g. /t:c/t:list[t:key='x']/t:leaf.
	Path    string
	Message string
	// BadElement is reported in error-info for bad-element and
	// unknown-element errors.
	BadElement string
}

// New returns an application error with severity error.
func New(tag Tag, path, format string, args ...interface{}) *Error {
	return &Error{
		Type:     Application,
		Tag:      tag,
		Severity: SeverityError,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Tag, e.Message)
	}
	return fmt.Sprintf("%s: %s (path %s)", e.Tag, e.Message, e.Path)
}

// GRPCStatus maps the error onto a gRPC status, so that a gNMI front end
// can return it unchanged.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Code(), e.Error())
}

// Code returns the gRPC code corresponding to the error-tag.
func (e *Error) Code() codes.Code {
	switch e.Tag {
	case DataExists:
		return codes.AlreadyExists
	case DataMissing, OperationFailed:
		return codes.FailedPrecondition
	case BadElement, UnknownElement, MissingElement, InvalidValue, MalformedMessage:
		return codes.InvalidArgument
	}
	return codes.Unknown
}

// List is an ordered sequence of rpc-errors from one request.
type List []*Error

// Error implements the error interface.
func (l List) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Tags returns the error-tag of each error, in order.
func (l List) Tags() []Tag {
	var out []Tag
	for _, e := range l {
		out = append(out, e.Tag)
	}
	return out
}

// MissingMandatory reports an absent mandatory leaf or choice.
func MissingMandatory(path, name string) *Error {
	return New(DataMissing, path, "Missing mandatory node - %s", name)
}

// MissingMandatoryChoice reports an absent mandatory choice nested inside a
// case. If topLevel is set the choice is a module top-level node.
func MissingMandatoryChoice(path, name string, topLevel bool) *Error {
	if topLevel {
		return New(DataMissing, path, "Mandatory choice %s is missing", name)
	}
	return New(DataMissing, path, "Mandatory choice '%s' is missing", name)
}

// InvalidChoiceElement reports that one request selects more than one case
// of the same choice.
func InvalidChoiceElement(path, element string) *Error {
	e := New(BadElement, path, "Invalid element in choice node ")
	e.BadElement = element
	return e
}

// WhenViolation reports a user value set for a node whose when condition is
// false.
func WhenViolation(path, element, expr string) *Error {
	e := New(UnknownElement, path, "Violate when constraints: %s", expr)
	e.BadElement = element
	return e
}

// MustViolation reports a failed must expression. msg overrides the default
// message when the schema declares an error-message.
func MustViolation(path, expr, msg string) *Error {
	if msg != "" {
		return New(OperationFailed, path, "%s", msg)
	}
	return New(OperationFailed, path, "Violate must constraints: %s", expr)
}

// MinElements reports a list or leaf-list with too few instances.
func MinElements(path, name string, n uint64) *Error {
	return New(OperationFailed, path, "Minimum elements required for %s is %d.", name, n)
}

// MaxElements reports a list or leaf-list with too many instances.
func MaxElements(path, name string, n uint64) *Error {
	return New(OperationFailed, path, "Maximum elements allowed for %s is %d.", name, n)
}

// DuplicateElements reports a leaf-list value given twice in one request.
func DuplicateElements(path, namespace, revision, name string) *Error {
	return New(OperationFailed, path, "Duplicate elements in node (%s?revision=%s)%s", namespace, revision, name)
}

// UnknownElementError reports a request element with no schema node.
func UnknownElementError(path, element string) *Error {
	e := New(UnknownElement, path, "An unexpected element %s is present", element)
	e.BadElement = element
	return e
}

// MissingKey reports a list entry given without one of its key leaves.
func MissingKey(path, list, key string) *Error {
	e := New(MissingElement, path, "Missing key %s for list %s", key, list)
	e.BadElement = key
	return e
}

// AlreadyExists reports a create of a node that is already present.
func AlreadyExists(path string) *Error {
	return New(DataExists, path, "Data already exists; cannot be created")
}

// NotFound reports a delete of, or navigation through, an absent node.
func NotFound(path string) *Error {
	return New(DataMissing, path, "Data does not exist")
}

// Malformed reports a request node whose shape does not match its schema
// node, such as a container carrying a value.
func Malformed(path, format string, args ...interface{}) *Error {
	return New(MalformedMessage, path, format, args...)
}
