package app

import (
	"os"
	"sync"
)

const testModeEnv = "COURIERDESK_TEST_MODE"

// InTestMode reports whether the binaries should skip connecting to Postgres
// and Redis. The flag is read once per process.
var InTestMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})
