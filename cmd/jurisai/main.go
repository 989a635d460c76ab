package main

import (
	"context"
	"os"

	"jurisai-backend/cli"
)

func main() {
	if err := cli.RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
