package domain

// Artifact describes a single publishable file of a module. All fields are
// plain strings so Artifact values are comparable and usable as set members.
type Artifact struct {
	// Name is the artifact file name without extension.
	Name string `yaml:"name" json:"name"`
	// Type is the artifact's logical kind, e.g. "lib" or "doc".
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
	// Ext is the file extension without the leading dot.
	Ext string `yaml:"ext,omitempty" json:"ext,omitempty"`
	// Classifier distinguishes variants published under the same name.
	Classifier string `yaml:"classifier,omitempty" json:"classifier,omitempty"`
	// URL is an explicit download location overriding repository layout.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
}

// FileName returns the conventional on-disk name of the artifact.
func (a Artifact) FileName() string {
	name := a.Name
	if a.Classifier != "" {
		name += "-" + a.Classifier
	}
	if a.Ext != "" {
		name += "." + a.Ext
	}
	return name
}

// SameCoordinates reports whether two artifacts describe the same logical
// file, ignoring the explicit URL.
func (a Artifact) SameCoordinates(b Artifact) bool {
	return a.Name == b.Name && a.Type == b.Type && a.Ext == b.Ext && a.Classifier == b.Classifier
}

// ArtifactOrigin records where an artifact was actually found.
type ArtifactOrigin struct {
	// Location is a file path for local origins or a URL for remote ones.
	Location string `json:"location"`
	// Local reports whether Location refers to the local file system.
	Local bool `json:"local"`
}
