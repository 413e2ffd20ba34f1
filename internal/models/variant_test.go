package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"marketplace_back_end/internal/models"
)

func TestVariant_EqualIgnoresKeyOrder(t *testing.T) {
	var a, b models.Variant
	require.NoError(t, json.Unmarshal([]byte(`{"color":"red","size":"M"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"size":"M","color":"red"}`), &b))

	// Les deux ordres produisent la même variante: pas de comparaison de chaînes brutes.
	assert.True(t, a.Equal(b))
	assert.Equal(t, "color=red;size=M", a.String())
	assert.Equal(t, a.String(), b.String())
}

func TestVariant_EmptyAndAbsent(t *testing.T) {
	var absent models.Variant
	var fromNull models.Variant
	require.NoError(t, json.Unmarshal([]byte(`null`), &fromNull))

	assert.True(t, absent.Equal(models.NewVariant(nil)))
	assert.True(t, absent.Equal(models.NewVariant(map[string]string{})))
	assert.True(t, absent.Equal(fromNull))
	assert.True(t, absent.IsZero())
	assert.False(t, absent.Equal(models.NewVariant(map[string]string{"color": "red"})))
}

func TestVariant_JSON(t *testing.T) {
	var v models.Variant
	require.NoError(t, json.Unmarshal([]byte(`{"size":42,"gift":true,"color":"red","note":null}`), &v))

	size, ok := v.Get("size")
	require.True(t, ok)
	assert.Equal(t, "42", size)
	_, ok = v.Get("note")
	assert.False(t, ok)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"red","gift":"true","size":"42"}`, string(out))
	assert.Equal(t, `{"color":"red","gift":"true","size":"42"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"color":{"r":255}}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`["red"]`), &v))
}

func TestVariant_CartItemJSONOmitsEmptyVariant(t *testing.T) {
	out, err := json.Marshal(models.CartItem{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "variant")
}

func TestVariant_BSONSortedDocument(t *testing.T) {
	item := models.CartItem{
		ProductID: "P1",
		Quantity:  2,
		Variant:   models.NewVariant(map[string]string{"size": "M", "color": "red"}),
	}

	raw, err := bson.Marshal(item)
	require.NoError(t, err)

	elems, err := bson.Raw(raw).Lookup("variant").Document().Elements()
	require.NoError(t, err)
	require.Len(t, elems, 2)
	assert.Equal(t, "color", elems[0].Key())
	assert.Equal(t, "size", elems[1].Key())

	var decoded models.CartItem
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.True(t, item.Variant.Equal(decoded.Variant))
}

func TestVariant_BSONOmittedWhenEmpty(t *testing.T) {
	raw, err := bson.Marshal(models.CartItem{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)

	_, err = bson.Raw(raw).LookupErr("variant")
	assert.Error(t, err)

	var decoded models.CartItem
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Variant.IsZero())
}
