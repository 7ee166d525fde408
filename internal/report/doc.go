// Package report writes scraping results.
//
//   - MarkdownWriter renders one site's OutputDocument as a markdown link list
//   - FileWriter places that document on disk in overwrite or append mode
//   - SimpleWriter and JSONWriter print the per-site run summary
package report
