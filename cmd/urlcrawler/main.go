// Package main provides the entry point for the urlcrawler CLI.
//
// urlcrawler crawls a single site from a seed URL with a fixed pool of
// workers, following only links on the seed's origin, and records which
// URLs were visited and which URLs each page links to.
//
// Usage:
//
//	urlcrawler crawl <url>
//	urlcrawler crawl --url <url> --workers 4 --delay 0.5 --print
//
// See --help for all available options.
package main

func main() {
	Execute()
}
