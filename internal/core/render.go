package core

import "fmt"

// OutputExtension is the extension of every renamed recording.
const OutputExtension = ".avi"

// RenderEpisode builds "<series> <season>.<episode>[ [<tag>]] (<title>).avi".
func RenderEpisode(series, season, episode, tag, title string) (string, error) {
	name := fmt.Sprintf("%s %s.%s%s (%s)%s", series, season, episode, formatTag(tag), title, OutputExtension)
	return SanitizeFilename(name)
}

// RenderMovie builds "<title>[ [<tag>]].avi".
func RenderMovie(title, tag string) (string, error) {
	return SanitizeFilename(title + formatTag(tag) + OutputExtension)
}

func formatTag(tag string) string {
	if tag == "" {
		return ""
	}
	return " [" + tag + "]"
}
