package java

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/matzehuels/mavenfetch/pkg/errors"
)

// Project is the subset of a POM document the resolver reads. Element names
// match with or without the Maven POM namespace.
type Project struct {
	XMLName      xml.Name     `xml:"project"`
	GroupID      string       `xml:"groupId"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version"`
	Packaging    string       `xml:"packaging"`
	Parent       *Parent      `xml:"parent"`
	Properties   propertyList `xml:"properties"`
	Dependencies []Dependency `xml:"dependencies>dependency"`
	Management   []Dependency `xml:"dependencyManagement>dependencies>dependency"`
}

// Parent is the <parent> reference of a POM.
type Parent struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// Complete reports whether all three parent coordinates are present.
func (p *Parent) Complete() bool {
	return p != nil &&
		strings.TrimSpace(p.GroupID) != "" &&
		strings.TrimSpace(p.ArtifactID) != "" &&
		strings.TrimSpace(p.Version) != ""
}

// Dependency is a <dependency> declaration, either direct or from
// <dependencyManagement>. Nil pointer fields mean the element is absent.
type Dependency struct {
	GroupID    string  `xml:"groupId"`
	ArtifactID string  `xml:"artifactId"`
	Version    *string `xml:"version"`
	Scope      *string `xml:"scope"`
	Optional   *string `xml:"optional"`
}

// Property is one <properties> child element.
type Property struct {
	Name  string
	Value string
}

type propertyList struct {
	Entries []propertyEntry `xml:",any"`
}

type propertyEntry struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// PropertyList returns the document's properties in declaration order.
// Elements without text are omitted.
func (p *Project) PropertyList() []Property {
	props := make([]Property, 0, len(p.Properties.Entries))
	for _, e := range p.Properties.Entries {
		v := strings.TrimSpace(e.Value)
		if v == "" {
			continue
		}
		props = append(props, Property{Name: e.XMLName.Local, Value: v})
	}
	return props
}

// ParsePOM decodes a POM document.
func ParsePOM(data []byte) (*Project, error) {
	var p Project
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataUnavailable, err, "parse POM")
	}
	return &p, nil
}

var optionalTrue = map[string]bool{"t": true, "true": true, "y": true, "yes": true, "1": true}

// IsOptional reports whether the declaration is marked optional.
func (d Dependency) IsOptional() bool {
	return d.Optional != nil && optionalTrue[strings.ToLower(strings.TrimSpace(*d.Optional))]
}

// excludedScope reports whether the declaration's scope removes it from the
// transitive closure. An absent scope is kept.
func (d Dependency) excludedScope() bool {
	if d.Scope == nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(*d.Scope)) {
	case "compile", "test":
		return true
	}
	return false
}

// hasIdentity reports whether both groupId and artifactId are present.
func (d Dependency) hasIdentity() bool {
	return strings.TrimSpace(d.GroupID) != "" && strings.TrimSpace(d.ArtifactID) != ""
}

// PackageExtension maps a <packaging> value to the file extension of the
// package binary. The boolean is false for "pom", which has no binary.
// Unrecognized packaging types fall back to "jar".
func PackageExtension(packaging string) (string, bool) {
	switch p := strings.ToLower(strings.TrimSpace(packaging)); p {
	case "pom":
		return "", false
	case "war", "ear", "aar", "rar":
		return p, true
	default:
		return "jar", true
	}
}

func trim(s string) string { return strings.TrimSpace(s) }
