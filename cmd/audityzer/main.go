package main

import (
	"os"

	"github.com/audityzer-org/audityzer/internal/app"
)

func main() {
	if err := app.BuildRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
