package main

import (
	"os"

	"github.com/ayusman/airtext/cmd/airtext/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
