package main

import (
	"fmt"
	"os"

	_ "github.com/ekaya-inc/cardinality/pkg/adapters/datasource/mssql"
	_ "github.com/ekaya-inc/cardinality/pkg/adapters/datasource/postgres"
	_ "github.com/ekaya-inc/cardinality/pkg/adapters/datasource/tsv"
)

// Version is set at build time via ldflags
var Version = "0.1.0"

func main() {
	root := newRootCmd(Version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
