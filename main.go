// Package main is the entry point for the sqlblock CLI.
// It executes SQL source blocks through the sqlite3, duckdb and psql shells.
package main

import (
	"sqlblock/cli/cmd"
)

func main() {
	cmd.Execute()
}
