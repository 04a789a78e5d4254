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
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "http://finance.yahoo.com/d/"

// Query holds the two request parameters derived from the caller's input.
type Query struct {
	Symbols string
	Fields  string
}

// BuildQuery joins symbols with '+' and concatenates field codes, both in the
// order given. Duplicates are kept.
func BuildQuery(symbols []string, fields []Field) (Query, error) {
	if len(symbols) == 0 {
		return Query{}, fmt.Errorf("%w: ticker symbols cannot be empty", ErrInvalidArgument)
	}
	if len(fields) == 0 {
		return Query{}, fmt.Errorf("%w: field list cannot be empty", ErrInvalidArgument)
	}
	for _, symbol := range symbols {
		if strings.TrimSpace(symbol) == "" {
			return Query{}, fmt.Errorf("%w: blank ticker symbol", ErrInvalidArgument)
		}
	}
	for _, f := range fields {
		if !f.Valid() {
			return Query{}, fmt.Errorf("%w: %s", ErrInvalidArgument, f)
		}
	}

	return Query{
		Symbols: strings.Join(symbols, "+"),
		Fields:  FieldCodes(fields),
	}, nil
}

// URL renders the query against base, e.g. base?s=IBM+MSFT&f=sl1. Each symbol
// is query-escaped so characters such as '&' or '#' stay inside the parameter.
func (q Query) URL(base string) string {
	symbols := strings.Split(q.Symbols, "+")
	for ii, symbol := range symbols {
		symbols[ii] = url.QueryEscape(symbol)
	}
	return fmt.Sprintf("%s?s=%s&f=%s", base, strings.Join(symbols, "+"), url.QueryEscape(q.Fields))
}

// Transport retrieves the raw response for a query. The caller closes the
// returned reader.
type Transport interface {
	Open(ctx context.Context, q Query) (io.ReadCloser, error)
}

// HTTPTransport requests quotes from the feed over HTTP.
type HTTPTransport struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPTransport{
		client:  client,
		baseURL: baseURL,
	}
}

func (t *HTTPTransport) Open(ctx context.Context, q Query) (io.ReadCloser, error) {
	reqURL := q.URL(t.baseURL)
	log.Debug().Str("Url", reqURL).Msg("Loading URL")
	resp, err := t.client.
		R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		SetDoNotParseResponse(true).
		Get(reqURL)
	if err != nil {
		log.Error().Err(err).Str("Url", reqURL).Msg("error when requesting quotes")
		return nil, err
	}

	body := resp.RawBody()
	if resp.StatusCode() >= 400 {
		defer body.Close()
		msg, _ := io.ReadAll(io.LimitReader(body, 4096))
		log.Error().Int("StatusCode", resp.StatusCode()).Str("Url", reqURL).Bytes("Body", msg).Msg("error when requesting quotes")
		return nil, fmt.Errorf("%w: %d %s", ErrHTTPStatus, resp.StatusCode(), strings.TrimSpace(string(msg)))
	}

	return body, nil
}

// Client fetches quote snapshots through a Transport.
type Client struct {
	transport Transport
}

func NewClient(transport Transport) *Client {
	return &Client{transport: transport}
}

// Fetch retrieves the requested fields for symbols, defaulting to
// DefaultFields when none are given. Every line of the response must parse; the
// first bad line fails the whole fetch. Symbols the feed does not echo back
// have no record in the returned store.
func (c *Client) Fetch(ctx context.Context, symbols []string, fields ...Field) (*QuoteStore, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}

	q, err := BuildQuery(symbols, fields)
	if err != nil {
		return nil, err
	}

	body, err := c.transport.Open(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer body.Close()

	store, err := readQuotes(body, fields)
	if err != nil {
		log.Error().Err(err).Str("Symbols", q.Symbols).Str("Fields", q.Fields).Msg("could not parse quote response")
		return nil, err
	}

	log.Info().Int("NumRequested", len(symbols)).Int("NumRecords", store.Len()).Msg("fetched quotes")
	return store, nil
}

func readQuotes(r io.Reader, fields []Field) (*QuoteStore, error) {
	store := NewQuoteStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		tokens, err := Tokenize(line)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = lineNo
				return nil, pe
			}
			return nil, err
		}

		rec, err := Assemble(tokens, fields)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		store.Put(rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read quote response: %w", err)
	}
	return store, nil
}
