// Package extractors recovers plain text from documents on disk.
//
// Each sub-package handles one format and implements driven.Extractor.
// The Registry picks an extractor by file extension and checks the file's
// content type before extraction, so a mislabelled file is rejected
// instead of producing garbage text.
//
// Supported formats:
//   - plaintext: .txt (UTF-8, invalid bytes dropped)
//   - html: .htm, .html (markup stripped, as filed on EDGAR)
//   - pdf: .pdf (text per row, pages joined by newlines)
//   - docx: .docx, .doc (paragraph and table text)
package extractors
