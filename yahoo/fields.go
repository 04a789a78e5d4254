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
	"fmt"
	"strings"
)

// Field identifies a single quote attribute served by the feed.
type Field int

const (
	Ask Field = iota
	AvgDailyVolume
	AskSize
	Bid
	AskRealTime
	BidRealTime
	BookValue
	BidSize
	ChgAndPercentChg
	ChgAmt
	ChgInPercent
	Commission
	ChgAmtRealTime
	AfterHoursChgRealTime
	DivPerShare
	LastTradeDate
	TradeDate
	EarningsPerShare
	ErrorIndication
	EPSEstCurrentYear
	EPSEstNextYear
	EPSEstNextQuarter
	FloatShares
	DaysLow
	DaysHigh
	FiftyTwoWeekLow
	FiftyTwoWeekHigh
	HoldingsGainPercent
	AnnualizedGain
	HoldingsGain
	HoldingsGainPercentRealTime
	HoldingsGainRealTime
	MoreInfo
	OrderBookRealTime
	MktCapitalization
	MktCapitalizationRealTime
	EBITDA
	ChgFromFiftyTwoWeekLow
	PercentChgFromFiftyTwoWeekLow
	LastTradeWithRealTime
	ChgPercentRealTime
	LastTradeSize
	ChgFromFiftyTwoWeekHigh
	PercentChgFromFiftyTwoWeekHigh
	LastTradeWithTime
	LastTrade
	HighLimit
	LowLimit
	DaysRange
	DaysRangeRealTime
	FiftyDayMovingAvg
	ChgFromFiftyDayMovingAvg
	PercentChgFromFiftyDayMovingAvg
	TwoHundredDayMovingAvg
	ChgFromTwoHundredDayMovingAvg
	PercentChgFromTwoHundredDayMovingAvg
	Name
	Notes
	Open
	PreviousClose
	PricePaid
	PricePerSales
	PricePerBook
	ExDivDate
	PriceEarningsRatio
	DivPayDate
	PriceEarningsRatioRealTime
	PEGRatio
	PricePerEPSEstCurrentYear
	PricePerEPSEstNextYear
	Symbol
	SharesOwned
	ShortRatio
	LastTradeTime
	TradeLinks
	TickerTrend
	OneYearTargetPrice
	Volume
	HoldingsValue
	HoldingsValueRealTime
	FiftyTwoWeekRange
	DaysValueChg
	DaysValueChgRealTime
	StockExchange
	DivYield

	numFields
)

type fieldInfo struct {
	name string
	code string
}

// fieldTable is indexed by Field. Names are the feed's historical identifiers,
// spelling included.
var fieldTable = [numFields]fieldInfo{
	Ask:                                  {"ASK", "a"},
	AvgDailyVolume:                       {"AVG_DAILY_VOLUME", "a2"},
	AskSize:                              {"ASK_SIZE", "a5"},
	Bid:                                  {"BID", "b"},
	AskRealTime:                          {"ASK_REAL_TIME", "b2"},
	BidRealTime:                          {"BID_REAL_TIME", "b3"},
	BookValue:                            {"BOOK_VALUE", "b4"},
	BidSize:                              {"BID_SIZE", "b6"},
	ChgAndPercentChg:                     {"CHG_AND_PERCENT_CHG", "c"},
	ChgAmt:                               {"CHG_AMT", "c1"},
	ChgInPercent:                         {"CHG_IN_PERCENT", "c2"},
	Commission:                           {"COMMISION", "c3"},
	ChgAmtRealTime:                       {"CHG_AMT_REAL_TIME", "c6"},
	AfterHoursChgRealTime:                {"AFTER_HOURS_CHG_REAL_TIME", "c8"},
	DivPerShare:                          {"DIV_PER_SHARE", "d"},
	LastTradeDate:                        {"LAST_TRADE_DATE", "d1"},
	TradeDate:                            {"TRADE_DATE", "d2"},
	EarningsPerShare:                     {"EARNINGS_PER_SHARE", "e"},
	ErrorIndication:                      {"ERROR_INDICATION", "e1"},
	EPSEstCurrentYear:                    {"EPS_EST_CURRENT_YEAR", "e7"},
	EPSEstNextYear:                       {"EPS_EST_NEXT_YEAR", "e8"},
	EPSEstNextQuarter:                    {"EPS_EST_NEXT_QUARTER", "e9"},
	FloatShares:                          {"FLOAT_SHARES", "f6"},
	DaysLow:                              {"DAYS_LOW", "g"},
	DaysHigh:                             {"DAYS_HIGH", "h"},
	FiftyTwoWeekLow:                      {"FIFTY_TWO_WEEK_LOW", "j"},
	FiftyTwoWeekHigh:                     {"FIFTY_TWO_WEEK_HIGH", "k"},
	HoldingsGainPercent:                  {"HOLDINGS_GAIN_PERCENT", "g1"},
	AnnualizedGain:                       {"ANNUALIZED_GAIN", "g3"},
	HoldingsGain:                         {"HOLDINGS_GAIN", "g4"},
	HoldingsGainPercentRealTime:          {"HOLDINGS_GAIN_PERCENT_REAL_TIME", "g5"},
	HoldingsGainRealTime:                 {"HOLDINGS_GAIN_REAL_TIME", "g6"},
	MoreInfo:                             {"MORE_INFO", "i"},
	OrderBookRealTime:                    {"ORDER_BOOK_REAL_TIME", "i5"},
	MktCapitalization:                    {"MKT_CAPITALIZATION", "j1"},
	MktCapitalizationRealTime:            {"MKT_CAPITALIZATION_REAL_TIME", "j3"},
	EBITDA:                               {"EBITDA", "j4"},
	ChgFromFiftyTwoWeekLow:               {"CHG_FROM_FIFTY_TWO_WEEK_LOW", "j5"},
	PercentChgFromFiftyTwoWeekLow:        {"PERCENT_CHG_FROM_FIFTY_TWO_WEEK_LOW", "j6"},
	LastTradeWithRealTime:                {"LAST_TRADE_WITH_REAL_TIME", "k1"},
	ChgPercentRealTime:                   {"CHG_PERCENT_REAL_TIME", "k2"},
	LastTradeSize:                        {"LAST_TRADE_SIZE", "k3"},
	ChgFromFiftyTwoWeekHigh:              {"CHG_FROM_FIFTY_TWO_WEEK_HIGH", "k4"},
	PercentChgFromFiftyTwoWeekHigh:       {"PERCENT_CHG_FROM_FIFTY_TWO_WEEK_HIGH", "k5"},
	LastTradeWithTime:                    {"LAST_TRADE_WITH_TIME", "l"},
	LastTrade:                            {"LAST_TRADE", "l1"},
	HighLimit:                            {"HIGH_LIMIT", "l2"},
	LowLimit:                             {"LOW_LIMIT", "l3"},
	DaysRange:                            {"DAYS_RANGE", "m"},
	DaysRangeRealTime:                    {"DAYS_RANGE_REAL_TIME", "m2"},
	FiftyDayMovingAvg:                    {"FIFTY_DAY_MOVING_AVG", "m3"},
	ChgFromFiftyDayMovingAvg:             {"CHG_FROM_FIFTY_DAY_MOVING_AVG", "m4"},
	PercentChgFromFiftyDayMovingAvg:      {"PERCENT_CHG_FROM_FIFTY_DAY_MOVING_AVG", "m5"},
	TwoHundredDayMovingAvg:               {"TWO_HUNDRED_DAY_MOVING_AVG", "m6"},
	ChgFromTwoHundredDayMovingAvg:        {"CHG_FROM_TWO_HUNDRED_DAY_MOVING_AVG", "m7"},
	PercentChgFromTwoHundredDayMovingAvg: {"PERCENT_CHG_FROM_TWO_HUNDRED_DAY_MOVING_AVG", "m8"},
	Name:                                 {"NAME", "n"},
	Notes:                                {"NOTES", "n4"},
	Open:                                 {"OPEN", "o"},
	PreviousClose:                        {"PREVIOUS_CLOSE", "p"},
	PricePaid:                            {"PRICE_PAID", "p1"},
	PricePerSales:                        {"PRICE_PER_SALES", "p5"},
	PricePerBook:                         {"PRICE_PER_BOOK", "p6"},
	ExDivDate:                            {"EX_DIV_DATE", "q"},
	PriceEarningsRatio:                   {"PRICE_EARNINGS_RATIO", "r"},
	DivPayDate:                           {"DIV_PAY_DATE", "r1"},
	PriceEarningsRatioRealTime:           {"PRICE_EARNINGS_RATIO_REAL_TIME", "r2"},
	PEGRatio:                             {"PEG_RATIO", "r5"},
	PricePerEPSEstCurrentYear:            {"PRICE_PER_EPS_EST_CURRENT_YEAR", "r6"},
	PricePerEPSEstNextYear:               {"PRICE_PER_EPS_EST_NEXT_YEAR", "r7"},
	Symbol:                               {"SYMBOL", "s"},
	SharesOwned:                          {"SHARES_OWNED", "s1"},
	ShortRatio:                           {"SHORT_RATIO", "s7"},
	LastTradeTime:                        {"LAST_TRADE_TIME", "t1"},
	TradeLinks:                           {"TRADE_LINKS", "t6"},
	TickerTrend:                          {"TICKER_TREND", "t7"},
	OneYearTargetPrice:                   {"ONE_YEAR_TARGET_PRICE", "t8"},
	Volume:                               {"VOLUME", "v"},
	HoldingsValue:                        {"HOLDINGS_VALUE", "v1"},
	HoldingsValueRealTime:                {"HOLDINGS_VALUE_REAL_TIME", "v7"},
	FiftyTwoWeekRange:                    {"FIFTY_TWO_WEEK_RANGE", "w"},
	DaysValueChg:                         {"DAYS_VALUE_CHG", "w1"},
	DaysValueChgRealTime:                 {"DAYS_VALUE_CHG_REAL_TIME", "w4"},
	StockExchange:                        {"STOCK_EXCHG", "x"},
	DivYield:                             {"DIV_YIELD", "y"},
}

var (
	fieldsByCode = indexFields(func(fi fieldInfo) string { return fi.code })
	fieldsByName = indexFields(func(fi fieldInfo) string { return fi.name })
)

// fieldAliases are extra names FieldByName accepts.
var fieldAliases = map[string]Field{
	"COMMISSION": Commission,
}

// DefaultFields are requested when the caller does not name any fields.
var DefaultFields = []Field{
	Symbol,
	PreviousClose,
	LastTrade,
	LastTradeDate,
	LastTradeTime,
	ChgAmt,
	Open,
	DaysHigh,
	DaysLow,
	Volume,
}

func indexFields(key func(fieldInfo) string) map[string]Field {
	idx := make(map[string]Field, numFields)
	for ii, fi := range fieldTable {
		idx[key(fi)] = Field(ii)
	}
	return idx
}

// Valid reports whether f is a member of the registry.
func (f Field) Valid() bool {
	return f >= 0 && f < numFields
}

// Code returns the feed's short code for f, e.g. "l1" for LastTrade.
func (f Field) Code() string {
	if !f.Valid() {
		return ""
	}
	return fieldTable[f].code
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

// FieldByCode returns the field registered under code.
func FieldByCode(code string) (Field, bool) {
	f, ok := fieldsByCode[code]
	return f, ok
}

// FieldByName returns the field with the given name (LAST_TRADE). Matching is
// case insensitive.
func FieldByName(name string) (Field, bool) {
	name = strings.ToUpper(name)
	if f, ok := fieldsByName[name]; ok {
		return f, true
	}
	f, ok := fieldAliases[name]
	return f, ok
}

// AllFields returns every registered field in registry order.
func AllFields() []Field {
	all := make([]Field, numFields)
	for ii := range all {
		all[ii] = Field(ii)
	}
	return all
}

// ParseFieldCodes splits a concatenated code string such as "snl1" into fields.
// Every code is a letter optionally followed by one digit.
func ParseFieldCodes(codes string) ([]Field, error) {
	fields := make([]Field, 0, len(codes))
	for pos := 0; pos < len(codes); {
		end := pos + 1
		if end < len(codes) && codes[end] >= '0' && codes[end] <= '9' {
			end++
		}
		f, ok := FieldByCode(codes[pos:end])
		if !ok {
			return nil, fmt.Errorf("%w: code %q at offset %d", ErrUnknownField, codes[pos:end], pos)
		}
		fields = append(fields, f)
		pos = end
	}
	return fields, nil
}

// ParseFields accepts a comma separated list where each entry is either a
// field name (LAST_TRADE) or a run of field codes (sl1).
func ParseFields(list string) ([]Field, error) {
	fields := []Field{}
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if f, ok := FieldByName(part); ok {
			fields = append(fields, f)
			continue
		}
		parsed, err := ParseFieldCodes(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, parsed...)
	}
	return fields, nil
}

// FieldCodes concatenates the codes of fields in order.
func FieldCodes(fields []Field) string {
	var sb strings.Builder
	for _, f := range fields {
		sb.WriteString(f.Code())
	}
	return sb.String()
}
