// Package main provides the entry point for the rbpscraper CLI.
//
// rbpscraper archives the articles of a Rock's Backpages search. It walks
// every search result page, saves each article as HTML and plain text and
// writes a CSV library of the article metadata.
//
// Usage:
//
//	rbpscraper crawl --descriptor "Jimi Hendrix" --url <search url> --output ./out
//	rbpscraper history
//
// See --help for all available options.
package main

// main is the entry point for rbpscraper.
func main() {
	Execute()
}
