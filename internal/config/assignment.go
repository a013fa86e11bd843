package config

// AssignmentConfig holds per-assignment settings keyed by target filename.
// A course typically reuses one .simscan file across assignments that
// differ in template and winnowing sensitivity.
type AssignmentConfig struct {
	// Template is the path of the skeleton file handed to students for
	// this assignment.
	Template string `yaml:"template,omitempty"`

	// NGram overrides the global n-gram length. Zero means unset.
	NGram int `yaml:"ngram,omitempty"`

	// Window overrides the global winnowing window. Zero means unset.
	Window int `yaml:"window,omitempty"`

	// Workers overrides the global worker bound. Zero means unset.
	Workers int `yaml:"workers,omitempty"`

	// DirectivePrefixes replaces the default conditional-compilation
	// markers stripped during canonicalization.
	DirectivePrefixes []string `yaml:"directivePrefixes,omitempty"`
}

// File represents the structure of the .simscan configuration file.
type File struct {
	// Assignments maps target filenames to their assignment-specific
	// configurations.
	Assignments map[string]AssignmentConfig `yaml:"assignments,omitempty"`

	// Defaults contains settings applied to every assignment unless
	// overridden in the assignment-specific configuration.
	Defaults AssignmentConfig `yaml:"defaults,omitempty"`
}

// GetAssignmentConfig returns the configuration for a target filename,
// merged over the file's defaults.
func (cf *File) GetAssignmentConfig(targetFile string) AssignmentConfig {
	result := cf.Defaults

	if a, ok := cf.Assignments[targetFile]; ok {
		if a.Template != "" {
			result.Template = a.Template
		}
		if a.NGram > 0 {
			result.NGram = a.NGram
		}
		if a.Window > 0 {
			result.Window = a.Window
		}
		if a.Workers > 0 {
			result.Workers = a.Workers
		}
		if len(a.DirectivePrefixes) > 0 {
			result.DirectivePrefixes = a.DirectivePrefixes
		}
	}

	return result
}
