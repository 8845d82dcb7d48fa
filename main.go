package main

import (
	"os"

	"github.com/ziadkadry99/api-portal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
