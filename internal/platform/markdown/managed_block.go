package markdown

import "strings"

// ReplaceManagedBlock swaps the text between startMarker and endMarker for
// generated. When the markers are missing the block is appended to body.
func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + generated + "\n" + endMarker

	if start >= 0 && end > start {
		return body[:start] + block + body[end+len(endMarker):]
	}
	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}

// ManagedContent returns the text between startMarker and endMarker.
func ManagedContent(body, startMarker, endMarker string) (string, bool) {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start < 0 || end < start {
		return "", false
	}
	return strings.Trim(body[start+len(startMarker):end], "\n"), true
}
