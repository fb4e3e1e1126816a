// Package main provides the standalone spatula harness binary.
//
// The binary is mostly useful through embedding: a scraper project
// registers its pages and calls cli.Execute from its own main. This
// entry point exists for version inspection and as the embedding
// template.
package main

import "github.com/morden35/spatula/cli"

// main is the entry point for the spatula harness.
func main() {
	cli.Execute()
}
