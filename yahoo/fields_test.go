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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRegistry_Bijection(t *testing.T) {
	t.Parallel()

	codes := map[string]Field{}
	names := map[string]Field{}
	for _, f := range AllFields() {
		require.NotEmpty(t, f.Code(), f.String())
		_, dup := codes[f.Code()]
		assert.False(t, dup, "duplicate code %s", f.Code())
		codes[f.Code()] = f
		names[f.String()] = f

		byCode, ok := FieldByCode(f.Code())
		require.True(t, ok)
		assert.Equal(t, f, byCode)

		byName, ok := FieldByName(f.String())
		require.True(t, ok)
		assert.Equal(t, f, byName)
	}
	assert.Len(t, names, len(AllFields()))
	assert.Len(t, AllFields(), 85)
}

func TestFieldByCode(t *testing.T) {
	t.Parallel()

	f, ok := FieldByCode("l1")
	assert.True(t, ok)
	assert.Equal(t, LastTrade, f)
	assert.Equal(t, "LAST_TRADE", f.String())

	for code, want := range map[string]Field{
		"c2": ChgInPercent,
		"i":  MoreInfo,
		"p1": PricePaid,
		"g1": HoldingsGainPercent,
		"g6": HoldingsGainRealTime,
		"n4": Notes,
		"s1": SharesOwned,
		"v7": HoldingsValueRealTime,
		"w4": DaysValueChgRealTime,
	} {
		f, ok = FieldByCode(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, f, code)
	}

	_, ok = FieldByCode("z")
	assert.False(t, ok)
	_, ok = FieldByCode("")
	assert.False(t, ok)
}

func TestFieldByName_CaseInsensitive(t *testing.T) {
	t.Parallel()

	f, ok := FieldByName("stock_exchg")
	assert.True(t, ok)
	assert.Equal(t, StockExchange, f)
	assert.Equal(t, "x", f.Code())
}

func TestFieldByName_Commission(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "COMMISION", Commission.String())
	for _, name := range []string{"COMMISION", "COMMISSION", "commission"} {
		f, ok := FieldByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, Commission, f, name)
	}
}

func TestField_Invalid(t *testing.T) {
	t.Parallel()

	assert.False(t, Field(-1).Valid())
	assert.False(t, numFields.Valid())
	assert.Equal(t, "", numFields.Code())
	assert.Equal(t, "Field(-1)", Field(-1).String())
}

func TestParseFieldCodes(t *testing.T) {
	t.Parallel()

	fields, err := ParseFieldCodes("snl1x")
	require.NoError(t, err)
	assert.Equal(t, []Field{Symbol, Name, LastTrade, StockExchange}, fields)

	fields, err = ParseFieldCodes("sl")
	require.NoError(t, err)
	assert.Equal(t, []Field{Symbol, LastTradeWithTime}, fields)

	fields, err = ParseFields("sc2,i")
	require.NoError(t, err)
	assert.Equal(t, []Field{Symbol, ChgInPercent, MoreInfo}, fields)

	_, err = ParseFieldCodes("sz")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	fields, err := ParseFields("SYMBOL, l1v ,name,")
	require.NoError(t, err)
	assert.Equal(t, []Field{Symbol, LastTrade, Volume, Name}, fields)

	fields, err = ParseFields("")
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = ParseFields("SYMBOL,BOGUS")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestFieldCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "spl1d1t1c1oghv", FieldCodes(DefaultFields))
}
