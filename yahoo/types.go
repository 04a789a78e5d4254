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

import "time"

// Observation is a single field of a quote snapshot, the row shape written to
// parquet and the database.
type Observation struct {
	Date      string `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Ticker    string `json:"ticker" parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Field     string `json:"field" parquet:"name=field, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Code      string `json:"code" parquet:"name=code, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Value     string `json:"value" parquet:"name=value, type=BYTE_ARRAY, convertedtype=UTF8"`
	FetchedAt int64  `json:"fetchedAt" parquet:"name=fetchedAt, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

type Asset struct {
	CompositeFigi string `json:"compositeFigi"`
	Ticker        string `json:"ticker" csv:"ticker"`
	AssetType     string `json:"assetType" csv:"assetType"`
}

// Observations flattens records into one row per field, records in the given
// order and fields in registry order.
func Observations(records []*Record, fetchedAt time.Time) []*Observation {
	date := fetchedAt.Format("2006-01-02")
	obs := make([]*Observation, 0, len(records)*len(DefaultFields))
	for _, rec := range records {
		for _, f := range rec.Fields() {
			obs = append(obs, &Observation{
				Date:      date,
				Ticker:    rec.ID,
				Field:     f.String(),
				Code:      f.Code(),
				Value:     rec.Value(f),
				FetchedAt: fetchedAt.UnixMilli(),
			})
		}
	}
	return obs
}
