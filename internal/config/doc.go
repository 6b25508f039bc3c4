// Package config provides the configuration for a crawl run: where the
// search starts, how the run is labelled, where results go, how politely
// requests are spaced and how results are reported.
package config
