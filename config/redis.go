package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

func InitRedis() error {
	val := os.Getenv("REDIS_ADDR")
	if val == "" {
		val = os.Getenv("REDIS_URI")
	}
	if val == "" {
		val = os.Getenv("REDIS_URL")
	}
	if val == "" {
		return errors.New("REDIS_ADDR (or REDIS_URI/REDIS_URL) environment variable is not set")
	}

	if strings.HasPrefix(val, "redis://") || strings.HasPrefix(val, "rediss://") {
		opt, err := redis.ParseURL(val)
		if err != nil {
			return err
		}
		RedisClient = redis.NewClient(opt)
	} else {
		// Plain host:port form; password and DB index come from their
		// own variables.
		opt := &redis.Options{
			Addr:     val,
			Password: os.Getenv("REDIS_PASSWORD"),
		}
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			db, err := strconv.Atoi(dbStr)
			if err != nil {
				return errors.New("REDIS_DB must be an integer")
			}
			opt.DB = db
		}
		RedisClient = redis.NewClient(opt)
	}

	_, err := RedisClient.Ping(context.Background()).Result()
	return err
}
