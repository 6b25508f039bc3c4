// Package report renders crawl run summaries.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with tables, alerts and a mermaid chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. The same writers
// render a single run (Write) and the stored run history (WriteHistory).
package report
