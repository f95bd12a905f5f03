package main

import (
	"fmt"
	"os"

	"github.com/BruksfildServices01/equine-practice/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(&cli.RootOptions{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
