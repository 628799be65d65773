package config

import (
	"strings"
	"time"
)

// SiteConfig holds crawl settings for one host.
type SiteConfig struct {
	// Workers overrides the worker count. Zero keeps the current value.
	Workers int `yaml:"workers,omitempty"`

	// Delay overrides the politeness delay, e.g. "500ms". A pointer so that
	// an explicit "0s" can disable the delay.
	Delay *time.Duration `yaml:"delay,omitempty"`

	// Timeout overrides the request timeout, e.g. "10s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy routes requests through a SOCKS5 proxy ("host:port").
	Proxy string `yaml:"proxy,omitempty"`

	// Cookie is sent as the Cookie header.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .urlcrawler configuration file.
type File struct {
	// Sites maps hosts (with port, if any) to their configuration.
	// Keys are matched case-insensitively, e.g. "example.com" or "localhost:8080".
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every crawl unless overridden per site.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merging the
// site-specific entry over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if siteConfig.Workers != 0 {
		result.Workers = siteConfig.Workers
	}
	if siteConfig.Delay != nil {
		result.Delay = siteConfig.Delay
	}
	if siteConfig.Timeout != 0 {
		result.Timeout = siteConfig.Timeout
	}
	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if siteConfig.Proxy != "" {
		result.Proxy = siteConfig.Proxy
	}
	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	if sc, ok := cf.Sites[host]; ok {
		return sc, true
	}
	for k, sc := range cf.Sites {
		if strings.EqualFold(k, host) {
			return sc, true
		}
	}
	return SiteConfig{}, false
}
