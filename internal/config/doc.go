// Package config provides configuration structures and utilities for urlcrawler.
// It defines the crawl settings (pool size, politeness delay, request options),
// report preferences and the optional .urlcrawler YAML file with per-host overrides.
package config
