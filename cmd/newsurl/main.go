// Package main provides the entry point for the newsurl CLI.
//
// newsurl fetches the listing pages of a few Hong Kong news sites, keeps the
// articles whose headline mentions one of the configured keywords and writes
// one markdown link list per site.
//
// Usage:
//
//	newsurl
//	newsurl scrape inmedia rthk
//	newsurl sites
//	newsurl history
//
// See --help for all available options.
package main

// main is the entry point for newsurl.
func main() {
	Execute()
}
