// Package schemas embeds the JSON Schemas for serialized artifacts.
package schemas

import "embed"

// ViewModel is the schema file name for the serialized dashboard state.
const ViewModel = "view_model.schema.json"

//go:embed *.schema.json
var files embed.FS

// Read returns the raw contents of an embedded schema file.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
