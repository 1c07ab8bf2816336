package achievementintegrationtests

import (
	"log"
	"os"
	"testing"

	"github.com/hirelane/engage/integration_tests/testutils"
)

var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	if testing.Short() {
		log.Println("Skipping achievement integration tests in short mode")
		os.Exit(0)
	}

	var err error
	testEnv, err = testutils.NewTestEnvironment()
	if err != nil {
		log.Printf("Failed to setup test environment: %v", err)
		os.Exit(1)
	}

	code := m.Run()
	testEnv.Cleanup()
	os.Exit(code)
}
