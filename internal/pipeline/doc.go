// Package pipeline runs the configured site adapters and writes their output.
//
// Each site goes through the same ordered steps: collect the adapter's
// candidates, keep those matching the keyword filter, optionally drop URLs
// recorded by earlier runs, then write the site's markdown file. A failing
// site is recorded in the Summary and never stops the others.
//
// Sites run one after another by default. WithConcurrency runs several at
// once with errgroup; every site owns its output file.
package pipeline
