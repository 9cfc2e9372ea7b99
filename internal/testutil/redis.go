package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLockPrefix = "fleet-alerts:testutil:db_lock:"

// TestRedisAddr returns TEST_REDIS_ADDR, then REDIS_ADDR, then the local
// compose port 56379.
func TestRedisAddr() string {
	if v := envOr("TEST_REDIS_ADDR", ""); v != "" {
		return v
	}
	return envOr("REDIS_ADDR", "localhost:56379")
}

// SetupTestRedis returns a client on an otherwise unused logical DB, flushed
// before and after the test. DB 0 holds the reservation keys so flushing the
// test DB never drops another package's claim. The test is skipped when Redis is
// unreachable unless TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()
	addr := TestRedisAddr()

	meta := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := meta.Ping(ctx).Err(); err != nil {
		_ = meta.Close()
		if required("TEST_REQUIRE_REDIS") {
			t.Fatalf("redis not available at %s: %v", addr, err)
		}
		t.Skip("redis not available at "+addr+":", err)
	}

	dbIndex, lockKey := reserveRedisDB(ctx, t, meta)
	client := redis.NewClient(&redis.Options{Addr: addr, DB: dbIndex})
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Logf("flush redis db %d: %v", dbIndex, err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		if lockKey != "" {
			_ = meta.Del(ctx, lockKey).Err()
		}
		_ = client.Close()
		_ = meta.Close()
	})
	return client
}

// reserveRedisDB honours TEST_REDIS_DB, otherwise claims the first free DB in 1..15.
func reserveRedisDB(ctx context.Context, t TestingTB, meta *redis.Client) (int, string) {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i, ""
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for i := 1; i <= 15; i++ {
		key := redisLockPrefix + strconv.Itoa(i)
		ok, err := meta.SetNX(ctx, key, owner, 30*time.Minute).Result()
		if err == nil && ok {
			return i, key
		}
	}
	t.Logf("no free redis db, sharing db 1")
	return 1, ""
}
