package corvid

import (
	"testing"

	"github.com/corvidware/corvid/structs"
	"github.com/stretchr/testify/assert"
)

func TestEncodeSchemaEmptySchemaProducesEmptyObject(t *testing.T) {
	body, err := EncodeSchema(structs.Schema{}, map[string]interface{}{"ignored": "x"})

	assert.NoError(t, err)
	assert.JSONEq(t, `{}`, string(body))
}

func TestEncodeSchemaStringField(t *testing.T) {
	schema := structs.Schema{"id": structs.StringField()}

	body, err := EncodeSchema(schema, map[string]interface{}{"id": "X"})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"X"}`, string(body))
}

func TestEncodeSchemaBareField(t *testing.T) {
	schema := structs.Schema{"id": structs.BareField()}

	body, err := EncodeSchema(schema, map[string]interface{}{"id": 42})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":42}`, string(body))
}

func TestEncodeSchemaMissingFieldOmitted(t *testing.T) {
	schema := structs.Schema{
		"id":   structs.StringField(),
		"name": structs.StringField(),
	}

	body, err := EncodeSchema(schema, map[string]interface{}{"id": "X"})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"X"}`, string(body))
}

func TestEncodeSchemaArrayOfStrings(t *testing.T) {
	schema := structs.Schema{"roles": structs.ArrayField(structs.StringField())}

	body, err := EncodeSchema(schema, map[string]interface{}{
		"roles": []interface{}{"a", "b", "c"},
	})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"roles":["a","b","c"]}`, string(body))
}

func TestEncodeSchemaNestedObject(t *testing.T) {
	schema := structs.Schema{
		"overwrite": structs.ObjectField(structs.Schema{
			"allow": structs.StringField(),
		}),
	}

	body, err := EncodeSchema(schema, map[string]interface{}{
		"overwrite": map[string]interface{}{"allow": "1024"},
	})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"overwrite":{"allow":"1024"}}`, string(body))
}

func TestEncodeSchemaStringFieldTypeMismatch(t *testing.T) {
	schema := structs.Schema{"id": structs.StringField()}

	_, err := EncodeSchema(schema, map[string]interface{}{"id": 5})

	assert.ErrorIs(t, err, ErrSchema)
}

func TestEncodeQueryDropsEmptyValuesAndEncodes(t *testing.T) {
	query := EncodeQuery(map[string]string{
		"limit": "50",
		"after": "",
		"name":  "a b",
	})

	assert.Equal(t, "limit=50&name=a+b", query)
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	data, err := Marshal(payload{Name: "corvid"})
	assert.NoError(t, err)

	var out payload
	assert.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, "corvid", out.Name)
}
