// Package adapter turns a news site's listing into a stream of candidate
// articles.
//
// Each configured site has a kind that selects how its listing is read:
//
//	inmedia    inmediahk.net topic pages (goquery)
//	rss        RSS or Atom feeds (gofeed)
//	wordpress  the WordPress REST search endpoint
//	selector   any HTML listing described by CSS selectors
//	anchors    every link with text on a page (x/net/html)
//
// Adapters are lazy. Nothing is fetched until Candidates is iterated, and
// later listing pages are only requested while the consumer keeps reading.
// A fetch failure is yielded once as an error and ends the sequence; a
// malformed entry is logged at debug level and skipped.
package adapter
