// Package model defines the data structures shared by the adapters, the
// keyword filter, the markdown writer and the orchestrator.
//
//   - Article: a candidate link extracted from a news listing page
//   - OutputDocument: the ordered, de-duplicated articles for one site
//   - DateGroup: articles of one publication date, used by the by-date layout
package model
