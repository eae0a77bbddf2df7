package dirlist

import "strings"

// QualityFromName derives a quality label ("1080p BluRay") from a file name.
// Returns "Unknown" when neither a resolution nor a source type is found.
func QualityFromName(name string) string {
	lower := strings.ToLower(name)

	var resolution string
	switch {
	case strings.Contains(lower, "2160p") || strings.Contains(lower, "4k") || strings.Contains(lower, "uhd"):
		resolution = "2160p"
	case strings.Contains(lower, "1080p"):
		resolution = "1080p"
	case strings.Contains(lower, "720p"):
		resolution = "720p"
	case strings.Contains(lower, "480p"):
		resolution = "480p"
	}

	var sourceType string
	switch {
	case strings.Contains(lower, "remux"):
		sourceType = "REMUX"
	case strings.Contains(lower, "bluray") || strings.Contains(lower, "blu-ray") || strings.Contains(lower, "bdrip"):
		sourceType = "BluRay"
	case strings.Contains(lower, "web-dl") || strings.Contains(lower, "webdl"):
		sourceType = "WEB-DL"
	case strings.Contains(lower, "webrip") || strings.Contains(lower, "web-rip"):
		sourceType = "WEBRip"
	case strings.Contains(lower, "hdtv"):
		sourceType = "HDTV"
	case strings.Contains(lower, "dvdrip") || strings.Contains(lower, "dvd"):
		sourceType = "DVDRip"
	case strings.Contains(lower, "hdcam") || strings.Contains(lower, "cam"):
		sourceType = "CAM"
	case strings.Contains(lower, "web"):
		sourceType = "WEB"
	}

	switch {
	case resolution != "" && sourceType != "":
		return resolution + " " + sourceType
	case resolution != "":
		return resolution
	case sourceType != "":
		return sourceType
	default:
		return "Unknown"
	}
}
