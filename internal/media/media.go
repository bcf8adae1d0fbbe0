// Package media classifies uploaded filenames by extension.
// Classification is pure: the substring after the last '.' decides,
// case-insensitively, and a filename without a '.' matches nothing.
package media

import "strings"

var (
	// allowedExtensions is the upload whitelist
	allowedExtensions = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true,
		"mp3": true, "wav": true, "ogg": true, "webm": true,
	}

	imageExtensions = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true,
	}

	// audioExtensions is wider than the upload whitelist: m4a and aac
	// recordings can reach the classifier through pre-existing files
	audioExtensions = map[string]bool{
		"mp3": true, "wav": true, "ogg": true, "webm": true,
		"m4a": true, "aac": true,
	}
)

// ext returns the lowercased extension of filename, or "" when there is none
func ext(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// IsAllowedFile reports whether filename has an extension accepted for upload
func IsAllowedFile(filename string) bool {
	e := ext(filename)
	return e != "" && allowedExtensions[e]
}

// IsImageFile reports whether filename has an image extension
func IsImageFile(filename string) bool {
	e := ext(filename)
	return e != "" && imageExtensions[e]
}

// IsAudioFile reports whether filename has an audio extension
func IsAudioFile(filename string) bool {
	e := ext(filename)
	return e != "" && audioExtensions[e]
}

// MimeType returns the mime type for a classified filename, falling back to
// application/octet-stream for anything unrecognized
func MimeType(filename string) string {
	switch ext(filename) {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg":
		return "audio/ogg"
	case "webm":
		return "audio/webm"
	case "m4a":
		return "audio/mp4"
	case "aac":
		return "audio/aac"
	default:
		return "application/octet-stream"
	}
}
