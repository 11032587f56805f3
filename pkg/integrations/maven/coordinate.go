package maven

import (
	"strings"

	"github.com/matzehuels/mavenfetch/pkg/errors"
)

// Coordinate identifies one Maven package: groupId, artifactId and version.
//
// Coordinates are comparable and can be used as map keys; equality is
// structural over all three fields. A Coordinate obtained from
// [ParseCoordinate] or [NewCoordinate] has every field non-empty and safe to
// use as a path segment.
type Coordinate struct {
	Group    string // groupId, e.g. "org.apache.commons"
	Artifact string // artifactId, e.g. "commons-lang3"
	Version  string // concrete version, e.g. "3.12.0"
}

// NewCoordinate validates the three parts and returns the Coordinate.
// Invalid parts yield an error with code MALFORMED_COORDINATE.
func NewCoordinate(group, artifact, version string) (Coordinate, error) {
	c := Coordinate{Group: group, Artifact: artifact, Version: version}
	for _, p := range []struct{ field, value string }{
		{"groupId", group},
		{"artifactId", artifact},
		{"version", version},
	} {
		if err := errors.ValidateCoordinatePart(p.field, p.value); err != nil {
			return Coordinate{}, err
		}
	}
	return c, nil
}

// ParseCoordinate parses a "groupId:artifactId:version" string.
// Surrounding whitespace of each segment is ignored. Anything other than
// exactly three non-empty segments fails with code MALFORMED_COORDINATE.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid maven coordinate %q (expected groupId:artifactId:version)", s)
	}
	c, err := NewCoordinate(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
	if err != nil {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid maven coordinate %q: %s", s, errors.UserMessage(err))
	}
	return c, nil
}

// String returns the "groupId:artifactId:version" form accepted by [ParseCoordinate].
func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Key returns "groupId:artifactId", the identity shared by all versions.
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// IsZero reports whether c is the zero Coordinate.
func (c Coordinate) IsZero() bool {
	return c == Coordinate{}
}

// FileName returns "<artifactId>-<version>.<ext>".
func (c Coordinate) FileName(ext string) string {
	return c.Artifact + "-" + c.Version + "." + ext
}

// POMPath returns the repository-relative path of the POM document,
// e.g. "org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0.pom".
func (c Coordinate) POMPath() string {
	return c.ArtifactPath("pom")
}

// ArtifactPath returns the repository-relative path of the file with the
// given extension in the coordinate's version directory.
func (c Coordinate) ArtifactPath(ext string) string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version + "/" + c.FileName(ext)
}

// MarshalText encodes the coordinate in its string form.
func (c Coordinate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the string form produced by MarshalText.
func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
