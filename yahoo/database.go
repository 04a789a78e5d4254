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
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
)

const upsertObservationSQL = `INSERT INTO quote_snapshot (
	"ticker",
	"event_date",
	"field",
	"code",
	"value",
	"fetched_at",
	"source"
) VALUES (
	$1,
	$2,
	$3,
	$4,
	$5,
	$6,
	$7
) ON CONFLICT ON CONSTRAINT quote_snapshot_pkey
DO UPDATE SET
	code = EXCLUDED.code,
	value = EXCLUDED.value,
	fetched_at = EXCLUDED.fetched_at,
	source = EXCLUDED.source;`

const quoteSource = "finance.yahoo.com"

// LoadAssetsFromDB returns the active equity tickers that quotes should be
// downloaded for.
func LoadAssetsFromDB(ctx context.Context, dsn string) ([]*Asset, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Error().Err(err).Msg("Could not connect to database")
		return nil, err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, `SELECT composite_figi, ticker, asset_type FROM assets WHERE asset_type IN ('Common Stock', 'ETF') AND active = 't' ORDER BY ticker`)
	if err != nil {
		log.Error().Err(err).Msg("could not retrieve assets from the database")
		return nil, err
	}
	defer rows.Close()

	assets := make([]*Asset, 0, 16)
	for rows.Next() {
		var asset Asset
		if err = rows.Scan(&asset.CompositeFigi, &asset.Ticker, &asset.AssetType); err != nil {
			log.Error().Err(err).Msg("error scanning row into asset")
			return nil, err
		}
		assets = append(assets, &asset)
		log.Debug().Str("Ticker", asset.Ticker).Msg("adding asset for download")
	}

	return assets, rows.Err()
}

// SaveToDatabase upserts observations in a single transaction.
func SaveToDatabase(ctx context.Context, dsn string, observations []*Observation) error {
	log.Info().Int("NumRecords", len(observations)).Msg("saving to database")
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Error().Err(err).Msg("Could not connect to database")
		return err
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return err
	}

	for _, obs := range observations {
		eventDate, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			log.Error().Err(err).Str("Date", obs.Date).Msg("invalid observation date")
			tx.Rollback(ctx)
			return err
		}
		if _, err := tx.Exec(ctx, upsertObservationSQL,
			obs.Ticker, eventDate, obs.Field, obs.Code, obs.Value,
			time.UnixMilli(obs.FetchedAt), quoteSource); err != nil {
			log.Error().Err(err).Str("Ticker", obs.Ticker).Str("Field", obs.Field).Msg("error saving quote to database")
			tx.Rollback(ctx)
			return err
		}
	}

	return tx.Commit(ctx)
}
