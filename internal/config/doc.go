// Package config provides the run configuration for newsurl: the keyword set,
// the enabled site adapters, the output directory and the supporting
// transport, storage and output options.
//
// A Config is assembled once at startup from in-process defaults
// (NewConfig), an optional YAML file (LoadConfigFile) and command-line flags,
// validated, and then passed read-only to the orchestrator.
package config
