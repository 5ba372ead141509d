package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	goVersion "github.com/hashicorp/go-version"
)

const (
	unknownVersion  = "<unknown>"
	cliVersionTitle = "codectl"
)

// Get the value of this variables at build time.
// See magefile for more details.
var (
	gitTag       string
	gitCommit    string
	versionLabel string
)

// normalizeTag returns the dotted numeric form of a release tag: "v1.2" gives
// "1.2.0". Tags that are not versions are returned as is.
func normalizeTag(tag string) string {
	normalizedVersion, err := goVersion.NewVersion(tag)
	if err != nil {
		return tag
	}

	segments := normalizedVersion.Segments()
	numbers := make([]string, 0, len(segments))
	for _, num := range segments {
		numbers = append(numbers, strconv.Itoa(num))
	}
	version := strings.Join(numbers, ".")
	if pre := normalizedVersion.Prerelease(); pre != "" {
		version += "-" + pre
	}
	return version
}

// GetVersion return string with codectl version info.
func GetVersion(showShort bool, needCommit bool) string {
	version := unknownVersion
	if gitTag != "" {
		version = normalizeTag(gitTag)
		if versionLabel != "" {
			version = fmt.Sprintf("%s/%s", version, versionLabel)
		}
	}

	if needCommit {
		return fmt.Sprintf("%s.%s", version, gitCommit)
	}
	if showShort {
		return version
	}

	return fmt.Sprintf(
		"%s version %s, %s/%s. commit: %s",
		cliVersionTitle, version, runtime.GOOS, runtime.GOARCH, gitCommit,
	)
}
