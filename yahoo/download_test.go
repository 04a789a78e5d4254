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
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport serves a canned response and records the query it was given.
type fakeTransport struct {
	body   string
	err    error
	calls  int
	query  Query
	closed bool
}

func (f *fakeTransport) Open(ctx context.Context, q Query) (io.ReadCloser, error) {
	f.calls++
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return f, nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if f.body == "" {
		return 0, io.EOF
	}
	n := copy(p, f.body)
	f.body = f.body[n:]
	return n, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestBuildQuery(t *testing.T) {
	t.Parallel()

	q, err := BuildQuery([]string{"^DJI", "IBM", "IBM"}, []Field{Symbol, LastTrade, Name})
	require.NoError(t, err)
	assert.Equal(t, "^DJI+IBM+IBM", q.Symbols)
	assert.Equal(t, "sl1n", q.Fields)
	assert.Equal(t, "http://finance.yahoo.com/d/?s=%5EDJI+IBM+IBM&f=sl1n", q.URL(DefaultBaseURL))
}

func TestQuery_URLEscapesSymbols(t *testing.T) {
	t.Parallel()

	q, err := BuildQuery([]string{"IBM&f=n#", "BRK.B"}, []Field{Symbol})
	require.NoError(t, err)

	rendered := q.URL(DefaultBaseURL)
	assert.Equal(t, "http://finance.yahoo.com/d/?s=IBM%26f%3Dn%23+BRK.B&f=s", rendered)

	parsed, err := url.Parse(rendered)
	require.NoError(t, err)
	assert.Empty(t, parsed.Fragment)
	assert.Equal(t, []string{"IBM&f=n# BRK.B"}, parsed.Query()["s"])
	assert.Equal(t, []string{"s"}, parsed.Query()["f"])
}

func TestBuildQuery_InvalidArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		symbols []string
		fields  []Field
	}{
		{"nil symbols", nil, DefaultFields},
		{"empty symbols", []string{}, DefaultFields},
		{"blank symbol", []string{"IBM", " "}, DefaultFields},
		{"empty fields", []string{"IBM"}, []Field{}},
		{"unknown field", []string{"IBM"}, []Field{Symbol, numFields}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := BuildQuery(tt.symbols, tt.fields)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{body: "\"IBM\",\"International Business Machines\",\"NYSE\"\r\n" +
		"\"MSFT\",\"Microsoft Corporation, Inc.\",\"NasdaqNM\"\r\n\r\n"}
	client := NewClient(transport)

	store, err := client.Fetch(context.Background(), []string{"^DJI", "IBM", "MSFT"}, Symbol, Name, StockExchange)
	require.NoError(t, err)

	assert.Equal(t, 1, transport.calls)
	assert.True(t, transport.closed)
	assert.Equal(t, Query{Symbols: "^DJI+IBM+MSFT", Fields: "snx"}, transport.query)

	assert.Equal(t, 2, store.Len())
	_, ok := store.Get("^DJI")
	assert.False(t, ok, "symbols dropped by the feed have no record")

	rec, ok := store.Get("MSFT")
	require.True(t, ok)
	assert.Equal(t, "Microsoft Corporation, Inc.", rec.Value(Name))
	assert.Equal(t, "NasdaqNM", rec.Value(StockExchange))
	assert.Equal(t, "", rec.Value(LastTrade))
}

func TestClient_FetchDefaultFields(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{body: `"IBM",125.00,125.30,"10/19/2026","4:00pm",+0.30,125.10,126.00,124.90,3412345` + "\n"}
	store, err := NewClient(transport).Fetch(context.Background(), []string{"IBM"})
	require.NoError(t, err)

	assert.Equal(t, "spl1d1t1c1oghv", transport.query.Fields)
	rec, ok := store.Get("IBM")
	require.True(t, ok)
	assert.ElementsMatch(t, DefaultFields, rec.Fields())
	assert.Equal(t, "125.30", rec.Value(LastTrade))
	assert.Equal(t, "10/19/2026", rec.Value(LastTradeDate))
	assert.Equal(t, "3412345", rec.Value(Volume))
}

func TestClient_FetchAbortsBatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		line    int
	}{
		{
			name:    "unterminated quote",
			body:    "\"IBM\",125.30\n\"AAPL\",\"Apple,150\n",
			wantErr: ErrUnterminatedQuote,
			line:    2,
		},
		{
			name:    "text after closing quote",
			body:    "\"IBM\",125.30\n\"MSFT\"X,45.67\n",
			wantErr: ErrFieldMismatch,
			line:    2,
		},
		{
			name:    "token count mismatch",
			body:    "\"IBM\",125.30\n\n\"MSFT\",45.67,extra\n\"JNJ\",60.00\n",
			wantErr: ErrFieldMismatch,
			line:    3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := &fakeTransport{body: tt.body}
			store, err := NewClient(transport).Fetch(context.Background(), []string{"IBM", "AAPL"}, Symbol, LastTrade)
			assert.Nil(t, store, "no partial store is returned")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.True(t, transport.closed)
		})
	}
}

func TestClient_FetchInvalidArgumentSkipsTransport(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	_, err := NewClient(transport).Fetch(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, 0, transport.calls)
}

func TestClient_FetchTransportError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	_, err := NewClient(&fakeTransport{err: boom}).Fetch(context.Background(), []string{"IBM"})
	assert.True(t, errors.Is(err, boom))
}

func TestHTTPTransport_Open(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "IBM MSFT", r.URL.Query().Get("s"))
		assert.Equal(t, "sl1", r.URL.Query().Get("f"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("\"IBM\",125.30\n\"MSFT\",45.67\n"))
	}))
	defer server.Close()

	client := NewClient(NewHTTPTransport(server.URL+"/d/", 5*time.Second))
	store, err := client.Fetch(context.Background(), []string{"IBM", "MSFT"}, Symbol, LastTrade)
	require.NoError(t, err)

	assert.Equal(t, []string{"IBM", "MSFT"}, store.Symbols())
	rec, _ := store.Get("MSFT")
	assert.Equal(t, "45.67", rec.Value(LastTrade))
}

func TestHTTPTransport_SymbolStaysInParameter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "^DJI IBM&f=n#", r.URL.Query().Get("s"))
		assert.Equal(t, []string{"s"}, r.URL.Query()["f"])
		_, _ = w.Write([]byte("\"IBM\"\n"))
	}))
	defer server.Close()

	store, err := NewClient(NewHTTPTransport(server.URL, 0)).Fetch(context.Background(), []string{"^DJI", "IBM&f=n#"}, Symbol)
	require.NoError(t, err)
	assert.Equal(t, []string{"IBM"}, store.Symbols())
}

func TestHTTPTransport_StatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("try again later"))
	}))
	defer server.Close()

	_, err := NewHTTPTransport(server.URL, 0).Open(context.Background(), Query{Symbols: "IBM", Fields: "s"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHTTPStatus))
	assert.True(t, strings.Contains(err.Error(), "503"))
	assert.True(t, strings.Contains(err.Error(), "try again later"))
}

func TestNewHTTPTransport_DefaultBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultBaseURL, NewHTTPTransport("", 0).baseURL)
}
