// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for dotenv files and
// github.com/caarlos0/env/v11 for struct tag parsing. Every configuration
// type is parsed once and cached; ResetCache drops the cache in tests.
//
//	if err := config.LoadEnv(".env.local"); err != nil {
//		return err
//	}
//	var cfg ratelimiter.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Failed parses wrap ErrParsingConfig and are not cached, so a later call
// retries.
package config
