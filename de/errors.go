package de

import (
	"errors"
	"strconv"
	"strings"
)

// Kind classifies deserialization failures. Every Kind is an error itself, so it can be
// matched with errors.Is.
type Kind uint8

const (
	_ Kind = iota
	MalformedNumber
	InvalidBoolean
	UnexpectedEmptyValue
	MissingField
	InvalidEnumVariant
	TypeMismatch
	InvalidLength
	InvalidEncoding
	DepthLimitExceeded
	Custom
)

var kindMessages = [...]string{
	MalformedNumber:      "malformed number",
	InvalidBoolean:       "invalid boolean",
	UnexpectedEmptyValue: "unexpected empty value",
	MissingField:         "missing field",
	InvalidEnumVariant:   "invalid enum variant",
	TypeMismatch:         "type mismatch",
	InvalidLength:        "invalid length",
	InvalidEncoding:      "invalid encoding",
	DepthLimitExceeded:   "depth limit exceeded",
	Custom:               "custom error",
}

func (k Kind) String() string {
	if int(k) >= len(kindMessages) || kindMessages[k] == "" {
		return "unknown error"
	}

	return kindMessages[k]
}

func (k Kind) Error() string {
	return k.String()
}

// Error describes the first failure encountered. Key is the path of the offending key,
// written the same way it would be in the query, e.g. `user[address][zip]`.
type Error struct {
	Kind Kind
	Key  string
	// Value is the decoded offending value, if any.
	Value    string
	HasValue bool
	// Expected describes what was expected instead, e.g. `uint8`.
	Expected string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("querystring: ")
	b.WriteString(e.Kind.String())
	if e.Key != "" {
		b.WriteString(" at ")
		b.WriteString(strconv.Quote(e.Key))
	}

	if e.HasValue {
		b.WriteString(" in value ")
		b.WriteString(strconv.Quote(e.Value))
	}

	if e.Expected != "" {
		b.WriteString(", expected ")
		b.WriteString(e.Expected)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Errorf is a shortcut for custom deserialization logic to report a failure.
func Errorf(kind Kind, expected string, cause error) *Error {
	return &Error{Kind: kind, Expected: expected, Err: cause}
}

// keyed attaches the key to errors which don't have one yet. Errors which aren't *Error
// are wrapped as Custom.
func keyed(p *path, err error) error {
	if err == nil {
		return nil
	}

	return withKey(p.String(), err)
}

func withKey(key string, err error) error {
	var derr *Error
	if !errors.As(err, &derr) {
		return &Error{Kind: Custom, Key: key, Err: err}
	}

	if derr.Key == "" {
		derr.Key = key
	}

	return err
}
