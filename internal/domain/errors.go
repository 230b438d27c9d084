package domain

import "errors"

var (
	// ErrAssetNotFound is returned when a kind/path pair is not in the catalog.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrCollectionNotFound is returned when a collection path is not in the catalog.
	ErrCollectionNotFound = errors.New("collection not found")
)
