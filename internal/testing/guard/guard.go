package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("STOCKBOOK_TEST_MODE") == "" {
			_ = os.Setenv("STOCKBOOK_TEST_MODE", "1")
		}
	})
}
