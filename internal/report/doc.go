// Package report renders crawl results.
//
// Writers for different output formats:
//   - TextWriter: human-readable text output for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for sharing
//
// Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter.
package report
