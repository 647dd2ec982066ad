// Package repo holds the wire schema shared by the repository adapters:
// module descriptors (module.yaml) and per-module revision indexes
// (index.yaml).
package repo

import (
	"time"

	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// descriptorFile is the YAML document describing one published revision.
type descriptorFile struct {
	Module struct {
		Organization string `yaml:"organization"`
		Name         string `yaml:"name"`
	} `yaml:"module"`
	Revision    string            `yaml:"revision"`
	Description string            `yaml:"description,omitempty"`
	Published   time.Time         `yaml:"published,omitempty"`
	Artifacts   []domain.Artifact `yaml:"artifacts,omitempty"`
}

// indexFile is the YAML document listing the published revisions of a module.
type indexFile struct {
	Revisions []string `yaml:"revisions"`
}

// ParseDescriptor decodes and validates a module.yaml document.
func ParseDescriptor(data []byte) (domain.Descriptor, error) {
	var df descriptorFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return domain.Descriptor{}, zerr.Wrap(err, domain.ErrDescriptorParseFailed.Error())
	}

	if df.Module.Organization == "" {
		return domain.Descriptor{}, zerr.With(domain.ErrDescriptorInvalid, "missing", "module.organization")
	}
	if df.Module.Name == "" {
		return domain.Descriptor{}, zerr.With(domain.ErrDescriptorInvalid, "missing", "module.name")
	}
	if df.Revision == "" {
		return domain.Descriptor{}, zerr.With(domain.ErrDescriptorInvalid, "missing", "revision")
	}

	return domain.Descriptor{
		ID:          domain.NewModuleID(df.Module.Organization, df.Module.Name),
		Revision:    df.Revision,
		Description: df.Description,
		Published:   df.Published,
		Artifacts:   df.Artifacts,
	}, nil
}

// EncodeDescriptor renders a descriptor as a module.yaml document.
func EncodeDescriptor(desc domain.Descriptor) ([]byte, error) {
	var df descriptorFile
	df.Module.Organization = desc.ID.Org.String()
	df.Module.Name = desc.ID.Name.String()
	df.Revision = desc.Revision
	df.Description = desc.Description
	df.Published = desc.Published
	df.Artifacts = desc.Artifacts

	data, err := yaml.Marshal(df)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode module descriptor")
	}
	return data, nil
}

// ParseIndex decodes an index.yaml document into its revision list.
func ParseIndex(data []byte) ([]string, error) {
	var idx indexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRevisionListFailed.Error())
	}
	return idx.Revisions, nil
}

// EncodeIndex renders a revision list as an index.yaml document.
func EncodeIndex(revisions []string) ([]byte, error) {
	data, err := yaml.Marshal(indexFile{Revisions: revisions})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode revision index")
	}
	return data, nil
}
