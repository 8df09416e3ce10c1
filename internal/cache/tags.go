// Package cache defines the cache-tag vocabulary shared between the write
// path and the site frontend. Tags are names, not data: invalidating a tag
// tells the read path to refetch everything cached under it.
package cache

import "strings"

// Collection and singleton tags.
const (
	TagTopics   = "topics"
	TagSettings = "settings"
	TagPages    = "pages"
	TagMenu     = "menu"
	TagFooter   = "footer"
	TagMedia    = "media"
)

const (
	topicTagPrefix = "topic:"
	pageTagPrefix  = "page:"
)

// TopicTag returns the entity-specific tag for a topic slug.
func TopicTag(slug string) string { return topicTagPrefix + slug }

// PageTag returns the entity-specific tag for a page slug.
func PageTag(slug string) string { return pageTagPrefix + slug }

// IsKnownTag reports whether tag belongs to the fixed vocabulary:
// one of the collection/singleton tags, or a topic:/page: entity tag
// with a non-empty suffix.
func IsKnownTag(tag string) bool {
	switch tag {
	case TagTopics, TagSettings, TagPages, TagMenu, TagFooter, TagMedia:
		return true
	}
	if rest, ok := strings.CutPrefix(tag, topicTagPrefix); ok {
		return rest != ""
	}
	if rest, ok := strings.CutPrefix(tag, pageTagPrefix); ok {
		return rest != ""
	}
	return false
}

// TagsForTopicWrite returns the tag set to invalidate after a topic write:
// the collection tag plus the entity tag. When the write renamed the topic,
// both the old and the new entity tags are included so neither cached copy
// survives.
func TagsForTopicWrite(oldSlug, newSlug string) []string {
	tags := []string{TagTopics}
	if oldSlug != "" && oldSlug != newSlug {
		tags = append(tags, TopicTag(oldSlug))
	}
	if newSlug != "" {
		tags = append(tags, TopicTag(newSlug))
	}
	return tags
}
