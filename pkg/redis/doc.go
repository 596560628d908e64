// Package redis connects to Redis with go-redis and exposes a health probe.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	caches := cache.NewManager(cache.NewRedisFactory(client))
package redis
