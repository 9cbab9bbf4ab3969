package utils

import (
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

var testRedis *miniredis.Miniredis

// TestMain pins the environment before the lazy config and redis singletons
// are first touched: a fixed JWT secret and an in-process redis.
func TestMain(m *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	testRedis = mr

	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("REDIS_HOST", mr.Host())
	os.Setenv("REDIS_PORT", mr.Port())

	code := m.Run()
	mr.Close()
	os.Exit(code)
}
