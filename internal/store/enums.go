package store

type FailureType string

const (
	FailureTypeNoCaptions FailureType = "no_captions" // Video has no usable caption track (or is private/too short).
	FailureTypeUpstream   FailureType = "upstream"    // Watch page, track or generative API unreachable.
	FailureTypeBadOutput  FailureType = "bad_output"  // Model reply could not be parsed.
)
