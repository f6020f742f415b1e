package main

import (
	"testing"

	_ "github.com/stockbook/stockbook/internal/testing/guard"

	"github.com/stockbook/stockbook/internal/app"
)

func TestMainSkipsStartupInTestMode(t *testing.T) {
	app.RefreshTestMode()
	if !app.InTestMode() {
		t.Fatal("expected test mode to be enabled by the guard")
	}
	main()
}
