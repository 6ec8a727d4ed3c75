package deps

// Defaults returns the external binaries muxkit shells out to. Empty
// overrides fall back to the bare command name resolved from PATH.
func Defaults(ffprobe, mkvextract, aegisub string) []Requirement {
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if mkvextract == "" {
		mkvextract = "mkvextract"
	}
	if aegisub == "" {
		aegisub = "aegisub-cli"
	}
	return []Requirement{
		{Name: "ffprobe", Command: ffprobe},
		{Name: "mkvextract", Command: mkvextract},
		{Name: "aegisub-cli", Command: aegisub, Optional: true},
	}
}
