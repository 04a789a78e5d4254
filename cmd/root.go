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
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/penny-vault/import-yahoo/yahoo"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/ratelimit"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "import-yahoo",
	Short: "Download quote snapshots from Yahoo! Finance",
	Long:  `Download point-in-time quote snapshots from the Yahoo! Finance csv feed and save them to parquet, the penny-vault database or redis`,
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		symbols, err := requestedSymbols(ctx, args)
		if err != nil {
			return err
		}

		limit := viper.GetInt("limit")
		if limit > 0 && limit < len(symbols) {
			symbols = symbols[:limit]
		}

		fields, err := requestedFields()
		if err != nil {
			return err
		}

		client := yahoo.NewClient(yahoo.NewHTTPTransport(viper.GetString("yahoo.base_url"), viper.GetDuration("yahoo.timeout")))
		store, err := fetchInBatches(ctx, client, symbols, fields, viper.GetInt("yahoo.batch_size"), viper.GetInt("yahoo.rate_limit"))
		if err != nil {
			log.Error().Err(err).Msg("quote download failed")
			return err
		}

		printQuotes(cmd, store, symbols)
		return saveQuotes(ctx, store)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLog)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is import-yahoo.toml)")
	rootCmd.PersistentFlags().Bool("log.json", false, "print logs as json to stderr")
	viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("log.json"))

	rootCmd.PersistentFlags().String("yahoo-base-url", yahoo.DefaultBaseURL, "base url of the quote feed")
	viper.BindPFlag("yahoo.base_url", rootCmd.PersistentFlags().Lookup("yahoo-base-url"))

	rootCmd.PersistentFlags().Duration("yahoo-timeout", 30*time.Second, "timeout for a single quote request")
	viper.BindPFlag("yahoo.timeout", rootCmd.PersistentFlags().Lookup("yahoo-timeout"))

	rootCmd.PersistentFlags().String("redis-url", "", "redis url used to cache quotes, e.g. redis://localhost:6379/0")
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis-url"))

	rootCmd.PersistentFlags().Duration("redis-ttl", 15*time.Minute, "how long cached quotes live in redis")
	viper.BindPFlag("redis.ttl", rootCmd.PersistentFlags().Lookup("redis-ttl"))

	// Local flags
	rootCmd.Flags().StringSliceP("symbols", "s", nil, "ticker symbols to download")
	viper.BindPFlag("symbols", rootCmd.Flags().Lookup("symbols"))

	rootCmd.Flags().StringP("fields", "f", "", "fields to download as names or codes, e.g. SYMBOL,NAME or snl1 (default: standard quote fields)")
	viper.BindPFlag("fields", rootCmd.Flags().Lookup("fields"))

	rootCmd.Flags().Bool("from-db", false, "download quotes for every active asset in the database")
	viper.BindPFlag("from_db", rootCmd.Flags().Lookup("from-db"))

	rootCmd.Flags().StringP("database-url", "d", "", "DSN for database connection")
	viper.BindPFlag("database.url", rootCmd.Flags().Lookup("database-url"))

	rootCmd.Flags().Uint32P("limit", "l", 0, "limit results to N")
	viper.BindPFlag("limit", rootCmd.Flags().Lookup("limit"))

	rootCmd.Flags().Int("batch-size", 100, "number of symbols per quote request")
	viper.BindPFlag("yahoo.batch_size", rootCmd.Flags().Lookup("batch-size"))

	rootCmd.Flags().Int("yahoo-rate-limit", 2, "yahoo rate limit (requests per second)")
	viper.BindPFlag("yahoo.rate_limit", rootCmd.Flags().Lookup("yahoo-rate-limit"))

	rootCmd.Flags().String("parquet-file", "", "save results to parquet")
	viper.BindPFlag("parquet_file", rootCmd.Flags().Lookup("parquet-file"))
}

func initLog() {
	if !viper.GetBool("log.json") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath("/etc/import-yahoo/")
		viper.AddConfigPath(fmt.Sprintf("%s/.import-yahoo", home))
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("import-yahoo")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("ConfigFile", viper.ConfigFileUsed()).Msg("Loaded config file")
	} else {
		log.Debug().Err(err).Msg("no config file loaded")
	}
}

// requestedSymbols combines positional args, --symbols and, with --from-db, the
// assets table.
func requestedSymbols(ctx context.Context, args []string) ([]string, error) {
	candidates := append([]string{}, args...)
	candidates = append(candidates, viper.GetStringSlice("symbols")...)

	symbols := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}

	if viper.GetBool("from_db") {
		assets, err := yahoo.LoadAssetsFromDB(ctx, viper.GetString("database.url"))
		if err != nil {
			return nil, err
		}
		for _, asset := range assets {
			symbols = append(symbols, asset.Ticker)
		}
	}

	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no ticker symbols given", yahoo.ErrInvalidArgument)
	}
	return symbols, nil
}

func requestedFields() ([]yahoo.Field, error) {
	list := viper.GetString("fields")
	if list == "" {
		return yahoo.DefaultFields, nil
	}
	fields, err := yahoo.ParseFields(list)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: field list cannot be empty", yahoo.ErrInvalidArgument)
	}
	return fields, nil
}

// fetchInBatches issues one fetch per batch of symbols, spaced out by the rate
// limiter, and merges the results. A failed batch fails the download.
func fetchInBatches(ctx context.Context, client *yahoo.Client, symbols []string, fields []yahoo.Field, batchSize, rate int) (*yahoo.QuoteStore, error) {
	if rate <= 0 {
		rate = 1
	}
	limit := ratelimit.New(rate)

	batches := chunk(symbols, batchSize)
	merged := yahoo.NewQuoteStore()
	bar := progressbar.Default(int64(len(batches)))
	for _, batch := range batches {
		bar.Add(1)
		limit.Take()
		store, err := client.Fetch(ctx, batch, fields...)
		if err != nil {
			return nil, err
		}
		for _, rec := range store.All() {
			merged.Put(rec)
		}
	}

	return merged, nil
}

func chunk(symbols []string, size int) [][]string {
	if len(symbols) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(symbols)
	}
	batches := make([][]string, 0, (len(symbols)+size-1)/size)
	for start := 0; start < len(symbols); start += size {
		end := start + size
		if end > len(symbols) {
			end = len(symbols)
		}
		batches = append(batches, symbols[start:end])
	}
	return batches
}

func printQuotes(cmd *cobra.Command, store *yahoo.QuoteStore, requested []string) {
	out := cmd.OutOrStdout()
	for _, rec := range store.All() {
		fmt.Fprintln(out, rec.String())
	}

	for _, symbol := range requested {
		if _, ok := store.Get(symbol); !ok {
			log.Warn().Str("Symbol", symbol).Msg("quote information not found")
		}
	}
}

func saveQuotes(ctx context.Context, store *yahoo.QuoteStore) error {
	observations := yahoo.Observations(store.All(), time.Now())

	if fn := viper.GetString("parquet_file"); fn != "" {
		if err := yahoo.SaveToParquet(observations, fn); err != nil {
			return err
		}
	}

	if dsn := viper.GetString("database.url"); dsn != "" {
		if err := yahoo.SaveToDatabase(ctx, dsn, observations); err != nil {
			return err
		}
	}

	if redisURL := viper.GetString("redis.url"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Error().Err(err).Msg("invalid redis url")
			return err
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := yahoo.NewRedisCache(rdb, viper.GetDuration("redis.ttl"), "").Save(ctx, store.All()); err != nil {
			return err
		}
	}

	return nil
}
