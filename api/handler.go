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
package api

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/penny-vault/import-yahoo/yahoo"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves a quote snapshot; *yahoo.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, symbols []string, fields ...yahoo.Field) (*yahoo.QuoteStore, error)
}

// Cache is the optional read-through store consulted by GET /quotes/:symbol.
// It only ever holds DefaultFields snapshots.
type Cache interface {
	Load(ctx context.Context, symbol string) (*yahoo.Record, bool, error)
	Save(ctx context.Context, records []*yahoo.Record) error
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type FieldResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type QuotesHandler struct {
	fetcher Fetcher
	cache   Cache
}

// NewQuotesHandler builds the handler. cache may be nil.
func NewQuotesHandler(fetcher Fetcher, cache Cache) *QuotesHandler {
	return &QuotesHandler{fetcher: fetcher, cache: cache}
}

// NewRouter registers the quote endpoints on a fresh gin engine.
func NewRouter(h *QuotesHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/fields", h.GetFields)
	r.GET("/quotes", h.GetQuotes)
	r.GET("/quotes/:symbol", h.GetQuote)
	return r
}

// GetQuotes fetches a batch of symbols.
//
// GET /quotes?s=IBM,MSFT&f=snl1
func (h *QuotesHandler) GetQuotes(c *gin.Context) {
	symbols := splitSymbols(c.Query("s"))
	fields, err := yahoo.ParseFields(c.Query("f"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	store, err := h.fetcher.Fetch(c.Request.Context(), symbols, fields...)
	if err != nil {
		writeFetchError(c, err)
		return
	}

	records := store.All()
	if h.cache != nil && isDefaultFieldSet(fields) {
		if err := h.cache.Save(c.Request.Context(), records); err != nil {
			log.Warn().Err(err).Msg("could not cache quotes")
		}
	}
	c.JSON(http.StatusOK, records)
}

// GetQuote returns a single symbol's default fields, from the cache when
// possible.
//
// GET /quotes/:symbol
func (h *QuotesHandler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	ctx := c.Request.Context()

	if h.cache != nil {
		rec, ok, err := h.cache.Load(ctx, symbol)
		if err != nil {
			log.Warn().Err(err).Str("Symbol", symbol).Msg("quote cache lookup failed")
		} else if ok {
			c.JSON(http.StatusOK, rec)
			return
		}
	}

	store, err := h.fetcher.Fetch(ctx, []string{symbol})
	if err != nil {
		writeFetchError(c, err)
		return
	}

	rec, ok := store.Get(symbol)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "quote not found for symbol " + symbol})
		return
	}
	if h.cache != nil {
		if err := h.cache.Save(ctx, []*yahoo.Record{rec}); err != nil {
			log.Warn().Err(err).Msg("could not cache quote")
		}
	}
	c.JSON(http.StatusOK, rec)
}

func (h *QuotesHandler) GetFields(c *gin.Context) {
	all := yahoo.AllFields()
	out := make([]FieldResponse, 0, len(all))
	for _, f := range all {
		out = append(out, FieldResponse{Name: f.String(), Code: f.Code()})
	}
	c.JSON(http.StatusOK, out)
}

func writeFetchError(c *gin.Context, err error) {
	if errors.Is(err, yahoo.ErrInvalidArgument) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	log.Error().Err(err).Msg("quote fetch failed")
	c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
}

// isDefaultFieldSet reports whether a request resolves to DefaultFields, the
// only field set kept in the cache.
func isDefaultFieldSet(fields []yahoo.Field) bool {
	return len(fields) == 0 || slices.Equal(fields, yahoo.DefaultFields)
}

func splitSymbols(s string) []string {
	symbols := []string{}
	for _, sym := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '+' }) {
		symbols = append(symbols, strings.ToUpper(sym))
	}
	return symbols
}
