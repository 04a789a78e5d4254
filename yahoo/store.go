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

// QuoteStore holds the records of one fetch session keyed by symbol. It is not
// safe for concurrent writers.
type QuoteStore struct {
	quotes map[string]*Record
	order  []string
}

func NewQuoteStore() *QuoteStore {
	return &QuoteStore{
		quotes: make(map[string]*Record),
	}
}

// Put stores rec under rec.ID, replacing any earlier record for that symbol.
func (s *QuoteStore) Put(rec *Record) {
	if _, ok := s.quotes[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.quotes[rec.ID] = rec
}

func (s *QuoteStore) Get(symbol string) (*Record, bool) {
	rec, ok := s.quotes[symbol]
	return rec, ok
}

// All returns the stored records in the order their symbols were first seen.
func (s *QuoteStore) All() []*Record {
	records := make([]*Record, 0, len(s.order))
	for _, symbol := range s.order {
		records = append(records, s.quotes[symbol])
	}
	return records
}

// Symbols returns the stored symbols in the order they were first seen.
func (s *QuoteStore) Symbols() []string {
	symbols := make([]string, len(s.order))
	copy(symbols, s.order)
	return symbols
}

func (s *QuoteStore) Len() int {
	return len(s.quotes)
}
