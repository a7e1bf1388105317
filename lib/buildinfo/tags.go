package buildinfo

import (
	"sort"
	"strings"
)

// Tags contains slice of build tags detected in this package
var Tags []string

// GetLinkingAndTags tells how the lspreview executable was linked
// and returns space separated build tags or the string "none".
func GetLinkingAndTags() (linking, tagString string) {
	return linkingAndTags(Tags)
}

func linkingAndTags(tags []string) (linking, tagString string) {
	linking = "static"
	tagList := []string{}
	for _, tag := range tags {
		if tag == "cgo" {
			linking = "dynamic"
		} else {
			tagList = append(tagList, tag)
		}
	}
	if len(tagList) == 0 {
		return linking, "none"
	}
	sort.Strings(tagList)
	return linking, strings.Join(tagList, " ")
}
