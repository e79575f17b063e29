// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// illegalChars replaces characters that are unsafe in file names on common
// filesystems.
var illegalChars = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// FolderName returns the per-year output folder name.
func FolderName(year int) string {
	return fmt.Sprintf("pdfs_%d", year)
}

// SanitizeLabel trims label and replaces each of \ / * ? : " < > | with an
// underscore. Everything else is kept as is.
func SanitizeLabel(label string) string {
	return illegalChars.Replace(strings.TrimSpace(label))
}

// FileName builds "<sanitized label>_<index>.pdf". An empty label becomes
// "report_<index>", so the index appears twice in that case.
func FileName(label string, index int) string {
	base := SanitizeLabel(label)
	if base == "" {
		base = fmt.Sprintf("report_%d", index)
	}
	return fmt.Sprintf("%s_%d.pdf", base, index)
}

// ResolveURL resolves href against base the way a browser resolves a link.
func ResolveURL(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
