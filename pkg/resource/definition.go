package resource

import (
	"github.com/pkg/errors"
)

// Target identifies the operating system family to which an artifact
// definition applies.
type Target string

const (
	// TargetLinux indicates an artifact definition for Linux systems.
	TargetLinux Target = "Linux"
	// TargetWindows indicates an artifact definition for Windows systems.
	TargetWindows Target = "Windows"
)

// UnmarshalYAML implements yaml.Unmarshaler.UnmarshalYAML.
func (t *Target) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// Decode the target as a string.
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}

	// Convert to a target.
	switch text {
	case "Linux":
		*t = TargetLinux
	case "Windows":
		*t = TargetWindows
	default:
		return errors.Errorf("unknown target specification: %s", text)
	}

	// Success.
	return nil
}

// Matches indicates whether or not the target applies to the specified GOOS
// value. Windows definitions apply only to Windows hosts and all other
// definitions apply only to non-Windows hosts.
func (t Target) Matches(goos string) bool {
	if t == TargetWindows {
		return goos == "windows"
	}
	return goos != "windows"
}

// Metadata describes an artifact definition: its unique name, provenance, and
// the operating system it applies to.
type Metadata struct {
	// Name is the unique, case-sensitive name of the artifact.
	Name string `yaml:"name"`
	// Description is a human-readable description of the artifact.
	Description string `yaml:"description"`
	// Date is an optional free-form revision date for the definition.
	Date string `yaml:"date,omitempty"`
	// Category is an optional grouping label for presentation purposes.
	Category string `yaml:"category,omitempty"`
	// Target is the operating system family the definition applies to.
	Target Target `yaml:"target"`
	// Source is an optional free-form provenance list.
	Source []string `yaml:"source,omitempty"`
}

// Artifact carries the payload of a definition: either a list of path
// patterns or a list of other artifact names, never both and never neither.
type Artifact struct {
	// Path is an ordered sequence of glob patterns.
	Path []string `yaml:"path,omitempty"`
	// Group is an ordered sequence of other artifact names.
	Group []string `yaml:"group,omitempty"`
}

// Definition is a single declarative catalog entry.
type Definition struct {
	// Metadata is the definition's metadata.
	Metadata Metadata `yaml:"metadata"`
	// Artifact is the definition's payload.
	Artifact Artifact `yaml:"artifact"`
}

// Category returns the definition's category, defaulting to "Other" when the
// definition doesn't declare one.
func (d *Definition) Category() string {
	if d.Metadata.Category == "" {
		return "Other"
	}
	return d.Metadata.Category
}

// IsGroup indicates whether or not the definition references other artifact
// names instead of paths.
func (d *Definition) IsGroup() bool {
	return len(d.Artifact.Group) > 0
}

// EnsureValid ensures that a definition's invariants are respected.
func (d *Definition) EnsureValid() error {
	// A nil definition is not valid.
	if d == nil {
		return errors.New("nil definition")
	}

	// Definitions must be named.
	if d.Metadata.Name == "" {
		return errors.New("definition has no name")
	}

	// Definitions must declare a target.
	if d.Metadata.Target != TargetLinux && d.Metadata.Target != TargetWindows {
		return errors.Errorf("definition %q has no valid target", d.Metadata.Name)
	}

	// Definitions must carry exactly one of path or group.
	hasPaths := len(d.Artifact.Path) > 0
	hasGroups := len(d.Artifact.Group) > 0
	if hasPaths && hasGroups {
		return errors.Errorf("definition %q declares both path and group", d.Metadata.Name)
	} else if !hasPaths && !hasGroups {
		return errors.Errorf("definition %q declares neither path nor group", d.Metadata.Name)
	}

	// Success.
	return nil
}
