// Package file provides the file-backed ConfigStore.
//
// The format follows the file extension: .yaml and .yml files are read and
// written with gopkg.in/yaml.v3, everything else as TOML with
// github.com/pelletier/go-toml/v2. Nested tables are exposed as dot-notation
// keys ("index.chunk_size") and written back nested.
package file
