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
	"github.com/gin-gonic/gin"
	"github.com/penny-vault/import-yahoo/api"
	"github.com/penny-vault/import-yahoo/yahoo"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve quote snapshots over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := yahoo.NewClient(yahoo.NewHTTPTransport(viper.GetString("yahoo.base_url"), viper.GetDuration("yahoo.timeout")))

		var cache api.Cache
		if redisURL := viper.GetString("redis.url"); redisURL != "" {
			opts, err := redis.ParseURL(redisURL)
			if err != nil {
				log.Error().Err(err).Msg("invalid redis url")
				return err
			}
			rdb := redis.NewClient(opts)
			defer rdb.Close()
			cache = yahoo.NewRedisCache(rdb, viper.GetDuration("redis.ttl"), "")
		}

		if !viper.GetBool("log.json") {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		router := api.NewRouter(api.NewQuotesHandler(client, cache))
		addr := viper.GetString("server.listen")
		log.Info().Str("Addr", addr).Msg("serving quotes")
		return router.Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))

	rootCmd.AddCommand(serveCmd)
}
