package tube

import "regexp"

// Matches the watch query form (?v=), /v/, /embed/ and /e/ paths, the
// youtu.be short form and the generic domain/x/y/ID path form. A video ID is
// exactly 11 characters that can't contain quotes, separators or whitespace.
var videoIdRe = regexp.MustCompile(
	`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`,
)

// ExtractVideoID pulls the 11 character video ID out of a YouTube URL.
// No validation beyond the shape is done, a made-up ID fails later at the
// watch page fetch.
func ExtractVideoID(url string) (string, bool) {
	m := videoIdRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}

	return m[1], true
}
