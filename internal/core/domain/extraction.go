package domain

// Extraction is the plain text recovered from a document on disk.
type Extraction struct {
	// Path is the file the text was read from.
	Path string

	// Format is the lower-case extension that selected the extractor (e.g. ".pdf").
	Format string

	// MIMEType is the detected content type.
	MIMEType string

	// Text is the extracted content. It may be empty.
	Text string
}

// IsEmpty returns true if no text was recovered.
func (e *Extraction) IsEmpty() bool {
	return e == nil || e.Text == ""
}
