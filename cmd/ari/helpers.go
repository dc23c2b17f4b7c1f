package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// fatalError prints the error and exits.
func fatalError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// printJSON pretty-prints any value as JSON.
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalError(err)
	}
	fmt.Println(string(data))
}

// truncateStr truncates string to n characters with ellipsis.
func truncateStr(s string, n int) string {
	if n < 4 {
		n = 4
	}
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
