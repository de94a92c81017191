package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "GESTAO_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

// InTestMode reports whether runtime side effects (servers, workers)
// should be skipped. The flag is read once from GESTAO_TEST_MODE.
func InTestMode() bool {
	testModeOnce.Do(func() {
		testModeFlag.Store(os.Getenv(testModeEnv) == "1")
	})
	return testModeFlag.Load()
}

// RefreshTestMode re-reads the flag after the environment changes.
func RefreshTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}
