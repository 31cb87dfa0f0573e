package initializers

import (
	"context"

	log "github.com/sirupsen/logrus"

	"bbs-backend/config"
	"bbs-backend/lib/cache"
)

func InitCacheStore(ctx context.Context) cache.Store {
	if config.Conf.Cache.RedisURL == "" {
		log.Info("employee cache uses process memory")
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(ctx, config.Conf.Cache.RedisURL)
	if err != nil {
		panic(err.Error())
	}
	log.Info("employee cache uses redis")
	return store
}

func employeeCachePolicy() cache.Policy {
	policy := cache.DefaultPolicy()
	policy.Fresh = config.Conf.EmployeeCacheFresh()
	policy.Retain = config.Conf.EmployeeCacheRetain()
	return policy
}
