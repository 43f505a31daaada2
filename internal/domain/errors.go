package domain

import "errors"

var (
	// ErrUnreadableDocument marks a corrupt or unsupported input file.
	// Reported per document; a bad file does not abort the batch.
	ErrUnreadableDocument = errors.New("document is unreadable")

	// ErrEmptyIndex is returned when searching before any vector was inserted.
	ErrEmptyIndex = errors.New("vector index is empty")

	// ErrRetrieval wraps embedding or search failures during retrieval.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration wraps failures of the hosted generation API.
	ErrGeneration = errors.New("answer generation failed")

	// ErrNotReady is returned when a question is asked before an index is built.
	ErrNotReady = errors.New("no index built yet")

	// ErrNoDocuments is returned when an operation needs loaded documents.
	ErrNoDocuments = errors.New("no documents loaded")
)
