package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/edutrip-api/internal/database"
)

func main() {
	if err := newRootCommand(database.ConnectPostgres, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
