// Package redis connects to the optional Redis server that backs the shared
// rate limiter store.
//
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		if err != nil {
//			return err
//		}
//		store := ratelimiter.NewRedisStore(client)
//	}
//
// Healthcheck plugs into the readiness endpoint.
package redis
