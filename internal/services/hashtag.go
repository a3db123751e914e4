package services

import "regexp"

var (
	hashtagPattern = regexp.MustCompile(`#[^\s#]+`)
	mentionPattern = regexp.MustCompile(`@[^\s@]+`)
)

// ExtractHashtags returns the hashtags found in content, in order of
// appearance, with the leading # stripped. Duplicates are preserved;
// callers dedupe via MergeHashtags.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllString(content, -1)
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		if tag := match[1:]; tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ExtractMentions returns the @mentions found in content with the
// leading @ stripped.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllString(content, -1)
	mentions := make([]string, 0, len(matches))
	for _, match := range matches {
		if mention := match[1:]; mention != "" {
			mentions = append(mentions, mention)
		}
	}
	return mentions
}

// MergeHashtags returns the deduplicated union of the hashtags embedded
// in content and the explicitly supplied tags, keeping first-seen order.
func MergeHashtags(content string, supplied []string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(supplied))
	for _, tag := range append(ExtractHashtags(content), supplied...) {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}
	return merged
}
