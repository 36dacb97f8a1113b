// Command planner runs funding simulations from the terminal against a
// household document (JSON or YAML) or the server's SQLite database.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
