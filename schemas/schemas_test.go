package schemas_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jonathan/postsphere/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestSchemaFiles_ValidJSON(t *testing.T) {
	data, err := os.ReadFile(schemas.ViewModel)
	require.NoError(t, err, "should be able to read schema file")

	var v interface{}
	assert.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	data, err := schemas.Read(schemas.ViewModel)
	require.NoError(t, err)

	_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	assert.NoError(t, err, "schema should compile")
}

func TestRead_Unknown(t *testing.T) {
	_, err := schemas.Read("missing.schema.json")
	assert.Error(t, err)
}
