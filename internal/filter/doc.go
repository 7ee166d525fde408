// Package filter decides which candidate articles are relevant.
package filter
