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
	"strings"
)

const (
	delimiter = ','
	quoteChar = '"'

	// NotAvailable stands in for an empty field, matching the feed's own
	// placeholder for values it does not have.
	NotAvailable = "N/A"
)

// Tokenize splits one response line into its fields. A field is either fully
// quoted, in which case commas inside the quotes are part of the value, or
// taken verbatim up to the next comma. Empty fields, including "", become
// NotAvailable so the token count always equals the number of field positions.
//
// Quotes are never escaped by the feed: the first quote after an opening quote
// closes the field. Anything between that quote and the next comma is emitted
// as a token of its own, which a well-formed line never contains.
func Tokenize(line string) ([]string, error) {
	tokens := []string{}
	if line == "" {
		return tokens, nil
	}

	pos := 0
	for {
		// pos is at the start of a field
		if pos == len(line) {
			tokens = append(tokens, NotAvailable)
			return tokens, nil
		}

		var tok string
		switch line[pos] {
		case delimiter:
			tokens = append(tokens, NotAvailable)
			pos++
			continue
		case quoteChar:
			end := strings.IndexByte(line[pos+1:], quoteChar)
			if end < 0 {
				return nil, &ParseError{Column: pos + 1, Err: ErrUnterminatedQuote}
			}
			tok = line[pos+1 : pos+1+end]
			pos += end + 2
			if tok == "" {
				tok = NotAvailable
			}
			if pos < len(line) && line[pos] != delimiter {
				// text right after the closing quote starts a new token
				tokens = append(tokens, tok)
				continue
			}
		default:
			tok = scanUnquoted(line[pos:])
			pos += len(tok)
		}

		tokens = append(tokens, tok)
		if pos == len(line) {
			return tokens, nil
		}
		// skip the delimiter that ended the field
		pos++
	}
}

func scanUnquoted(s string) string {
	if end := strings.IndexByte(s, delimiter); end >= 0 {
		return s[:end]
	}
	return s
}

// Join is the inverse of Tokenize for tokens without quote characters: tokens
// holding a comma are quoted, everything else is written verbatim.
func Join(tokens []string) string {
	var sb strings.Builder
	for ii, tok := range tokens {
		if ii > 0 {
			sb.WriteByte(delimiter)
		}
		if strings.IndexByte(tok, delimiter) >= 0 {
			sb.WriteByte(quoteChar)
			sb.WriteString(tok)
			sb.WriteByte(quoteChar)
			continue
		}
		sb.WriteString(tok)
	}
	return sb.String()
}
