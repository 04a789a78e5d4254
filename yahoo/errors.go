/*
Copyright 2022

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package yahoo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrUnterminatedQuote = errors.New("missing closing quote")
	ErrFieldMismatch     = errors.New("field/token count mismatch")
	ErrUnknownField      = errors.New("unknown field")
	ErrHTTPStatus        = errors.New("unexpected http status")
)

// ParseError reports where in the response a line could not be parsed.
// Line is 1-based and zero when the error came from a standalone Tokenize call.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("column %d: %v", e.Column, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
