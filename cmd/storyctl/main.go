package main

import (
	"fmt"
	"os"
)

var (
	Version string = "development"
	appName string = "storyctl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
