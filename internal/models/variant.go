package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// VariantAttribute est une paire nom/valeur d'une variante ({"size": "M"}).
type VariantAttribute struct {
	Name  string
	Value string
}

// Variant est un ensemble d'attributs toujours trié par nom.
// Deux variantes sont égales si elles ont les mêmes paires, quel que soit
// l'ordre dans lequel le client les a envoyées.
type Variant struct {
	attrs []VariantAttribute
}

// NewVariant construit une variante canonique à partir d'une map.
func NewVariant(attrs map[string]string) Variant {
	if len(attrs) == 0 {
		return Variant{}
	}
	out := make([]VariantAttribute, 0, len(attrs))
	for name, value := range attrs {
		out = append(out, VariantAttribute{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return Variant{attrs: out}
}

func (v Variant) Len() int {
	return len(v.attrs)
}

// IsZero est utilisé par omitempty (bson) et omitzero (json).
func (v Variant) IsZero() bool {
	return len(v.attrs) == 0
}

func (v Variant) Get(name string) (string, bool) {
	i := sort.Search(len(v.attrs), func(i int) bool { return v.attrs[i].Name >= name })
	if i < len(v.attrs) && v.attrs[i].Name == name {
		return v.attrs[i].Value, true
	}
	return "", false
}

// Attributes retourne une copie des attributs, triés par nom.
func (v Variant) Attributes() []VariantAttribute {
	out := make([]VariantAttribute, len(v.attrs))
	copy(out, v.attrs)
	return out
}

func (v Variant) Map() map[string]string {
	m := make(map[string]string, len(v.attrs))
	for _, a := range v.attrs {
		m[a.Name] = a.Value
	}
	return m
}

// Equal compare deux variantes attribut par attribut. Vide == absente.
func (v Variant) Equal(other Variant) bool {
	if len(v.attrs) != len(other.attrs) {
		return false
	}
	for i := range v.attrs {
		if v.attrs[i] != other.attrs[i] {
			return false
		}
	}
	return true
}

// String retourne la forme canonique "color=red;size=M".
func (v Variant) String() string {
	parts := make([]string, len(v.attrs))
	for i, a := range v.attrs {
		parts[i] = a.Name + "=" + a.Value
	}
	return strings.Join(parts, ";")
}

// --- JSON ---

func (v Variant) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range v.attrs {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepte un objet plat. Les nombres et booléens sont convertis
// en chaîne, les valeurs null sont ignorées.
func (v *Variant) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Variant{}
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("variante invalide: %w", err)
	}

	attrs := make(map[string]string, len(raw))
	for name, value := range raw {
		switch t := value.(type) {
		case nil:
			continue
		case string:
			attrs[name] = t
		case float64:
			attrs[name] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			attrs[name] = strconv.FormatBool(t)
		default:
			return fmt.Errorf("variante invalide: l'attribut %q doit être une valeur simple", name)
		}
	}

	*v = NewVariant(attrs)
	return nil
}

// --- BSON ---

// MarshalBSONValue écrit un sous-document aux clés triées.
func (v Variant) MarshalBSONValue() (bsontype.Type, []byte, error) {
	doc := make(bson.D, 0, len(v.attrs))
	for _, a := range v.attrs {
		doc = append(doc, bson.E{Key: a.Name, Value: a.Value})
	}
	return bson.MarshalValue(doc)
}

func (v *Variant) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*v = Variant{}
		return nil
	case bsontype.EmbeddedDocument:
	default:
		return fmt.Errorf("variante: type BSON inattendu %s", t)
	}

	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return fmt.Errorf("variante: document BSON invalide: %w", err)
	}

	attrs := make(map[string]string, len(elems))
	for _, e := range elems {
		value, ok := e.Value().StringValueOK()
		if !ok {
			return fmt.Errorf("variante: l'attribut %q n'est pas une chaîne", e.Key())
		}
		attrs[e.Key()] = value
	}

	*v = NewVariant(attrs)
	return nil
}
