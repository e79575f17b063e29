// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SearchQuery is one filing-year and last-name pair captured from the user.
// It is created per iteration of the interactive loop and never modified.
type SearchQuery struct {
	// Year is the filing year, one of the supported years.
	Year int `json:"year" yaml:"year"`

	// LastName is the trimmed filer last name. It may be empty.
	LastName string `json:"last_name" yaml:"last_name"`
}

// DisclosureLink is a PDF anchor found in the search results table.
type DisclosureLink struct {
	// Href is the anchor target as it appears in the page, relative or absolute.
	Href string `json:"href" yaml:"href"`

	// Label is the visible anchor text with surrounding whitespace removed.
	Label string `json:"label" yaml:"label"`
}

// OutputFile is a downloaded report ready to be written to disk.
type OutputFile struct {
	// Path is the destination inside the per-year folder.
	Path string `json:"path" yaml:"path"`

	// Body is the full HTTP response body.
	Body []byte `json:"-" yaml:"-"`
}

// FetchResult reports what one fetch iteration wrote.
type FetchResult struct {
	// Folder is the per-year output folder, created even when no links matched.
	Folder string `json:"folder" yaml:"folder"`

	// Files lists written paths in results-table order.
	Files []string `json:"files" yaml:"files"`
}
