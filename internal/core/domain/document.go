package domain

import "time"

// Document is the typed result of a document-service operation.
// It is a thin view over the provider's document, not a stored entity.
type Document struct {
	// ID is the provider's document identifier.
	ID string `json:"id"`

	// Title is the document title.
	Title string `json:"title"`

	// Content is the plain-text body. Populated by read operations;
	// list results leave it empty.
	Content string `json:"content,omitempty"`

	// URL is the browser link to the document.
	URL string `json:"url"`

	// ModifiedTime is the provider's last-modified timestamp.
	// Zero when the operation does not report one.
	ModifiedTime time.Time `json:"modified_time,omitempty"`
}

// DriveFile is one search hit from the file store, which may be any file
// type, not only documents.
type DriveFile struct {
	// ID is the provider's file identifier.
	ID string `json:"id"`

	// Name is the file name.
	Name string `json:"name"`

	// MIMEType is the provider MIME type, which distinguishes native
	// documents from uploaded files.
	MIMEType string `json:"mime_type"`

	// URL is the browser link to the file.
	URL string `json:"url"`

	// ModifiedTime is the provider's last-modified timestamp.
	ModifiedTime time.Time `json:"modified_time,omitempty"`
}
