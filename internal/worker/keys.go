package worker

import (
	"path"
	"strings"
)

const thumbSuffix = "_thumb.jpg"

// DeriveThumbKey maps a source object key onto its thumbnail key:
// user-uploads/<userId>/posts/<uuid>.<ext> -> user-uploads/<userId>/posts/<uuid>_thumb.jpg
// An extensionless key simply gets the suffix appended.
func DeriveThumbKey(sourceKey string) string {
	if ext := path.Ext(sourceKey); ext != "" {
		sourceKey = strings.TrimSuffix(sourceKey, ext)
	}
	return sourceKey + thumbSuffix
}
