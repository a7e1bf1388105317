package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkingAndTags(t *testing.T) {
	for _, test := range []struct {
		tags        []string
		wantLinking string
		wantTags    string
	}{
		{nil, "static", "none"},
		{[]string{"cgo"}, "dynamic", "none"},
		{[]string{"noselfupdate", "cgo", "cmount"}, "dynamic", "cmount noselfupdate"},
		{[]string{"b", "a"}, "static", "a b"},
	} {
		linking, tags := linkingAndTags(test.tags)
		assert.Equal(t, test.wantLinking, linking, test.tags)
		assert.Equal(t, test.wantTags, tags, test.tags)
	}
}

func TestGetOSVersion(t *testing.T) {
	osVersion, osKernel := GetOSVersion()
	assert.NotEmpty(t, osVersion)
	assert.NotEmpty(t, osKernel)
}
