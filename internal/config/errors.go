package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers use errors.Is to distinguish them.
var (
	// ErrNoKeywords is returned when the keyword set is empty.
	ErrNoKeywords = errors.New("no keywords configured")

	// ErrNoAdapters is returned when no site adapter is enabled.
	ErrNoAdapters = errors.New("no adapters configured")

	// ErrUnknownAdapter is returned when an enabled adapter id has no site definition.
	ErrUnknownAdapter = errors.New("unknown adapter")

	// ErrEmptyOutputDir is returned when the output directory is empty.
	ErrEmptyOutputDir = errors.New("output directory is empty")

	// ErrInvalidMode is returned for an output mode other than overwrite or append.
	ErrInvalidMode = errors.New("invalid output mode: must be overwrite or append")

	// ErrInvalidLayout is returned for an output layout other than list or by-date.
	ErrInvalidLayout = errors.New("invalid output layout: must be list or by-date")

	// ErrLayoutRequiresOverwrite is returned when the by-date layout is combined with append mode.
	ErrLayoutRequiresOverwrite = errors.New("by-date layout requires overwrite mode")

	// ErrInvalidDedup is returned for a dedup policy other than none or registry.
	ErrInvalidDedup = errors.New("invalid dedup policy: must be none or registry")

	// ErrDedupRequiresDB is returned when registry dedup is requested with the database disabled.
	ErrDedupRequiresDB = errors.New("registry dedup requires the database")

	// ErrDedupRequiresAppend is returned when registry dedup is combined with
	// overwrite mode, which would replace earlier links with only the new ones.
	ErrDedupRequiresAppend = errors.New("registry dedup requires append mode")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrSiteMissingURL is returned when a site definition has no listing URL.
	ErrSiteMissingURL = errors.New("site url is empty")

	// ErrSiteUnknownKind is returned when a site definition names an unsupported adapter kind.
	ErrSiteUnknownKind = errors.New("unsupported site kind")

	// ErrSiteMissingSelector is returned when a selector site lacks item or link selectors.
	ErrSiteMissingSelector = errors.New("selector site requires item and link selectors")
)
