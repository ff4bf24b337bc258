package model

// Path represents a file system path.
type Path string

// File represents a source file and the hex SHA-256 of its content.
type File struct {
	Path Path   `yaml:"path"`
	Hash string `yaml:"hash,omitempty"`
}

// Source is the set of input files parsed into one syntax tree, in the
// order they were given.
type Source struct {
	Files []File
}

// Paths returns the file paths of the source in order.
func (s Source) Paths() []Path {
	paths := make([]Path, 0, len(s.Files))
	for _, f := range s.Files {
		paths = append(paths, f.Path)
	}

	return paths
}
