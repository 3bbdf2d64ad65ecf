package acsign

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Content types sent for each body variant.
const (
	ContentTypeJSON   = "application/json; charset=utf-8"
	ContentTypeForm   = "application/x-www-form-urlencoded"
	ContentTypeBinary = "application/octet-stream"
)

// Body is a request body. The variants are JSONBody, FormBody and BinaryBody;
// a nil Body means the request has no body.
type Body interface {
	isBody()
}

// JSONBody is serialized as a compact JSON object.
type JSONBody map[string]any

// BinaryBody is transmitted as is.
type BinaryBody []byte

// FormBody is serialized as application/x-www-form-urlencoded text.
type FormBody map[string]FormValue

func (JSONBody) isBody()   {}
func (BinaryBody) isBody() {}
func (FormBody) isBody()   {}

type formKind int

const (
	formString formKind = iota
	formList
	formMap
)

// FormValue is a single string, a list of strings or a flat string map.
type FormValue struct {
	kind   formKind
	str    string
	list   []string
	nested map[string]string
}

// FormString returns a form value holding one string.
func FormString(s string) FormValue {
	return FormValue{kind: formString, str: s}
}

// FormList returns a form value that repeats its key once per element.
func FormList(values ...string) FormValue {
	return FormValue{kind: formList, list: values}
}

// FormMap returns a form value that expands to one "sub=value" segment per
// entry, sorted by sub key. The outer key is not repeated in the segments.
func FormMap(m map[string]string) FormValue {
	return FormValue{kind: formMap, nested: m}
}

// EncodedBody is a serialized request body.
type EncodedBody struct {
	// Payload is the literal body sent on the wire.
	Payload []byte
	// Content is the text fed to HashPayload. It is empty for binary and
	// empty bodies.
	Content string
	// ContentType is empty when there is no body.
	ContentType string
}

// EncodeBody serializes b.
func EncodeBody(b Body) (EncodedBody, error) {
	switch v := b.(type) {
	case nil:
		return EncodedBody{}, nil
	case JSONBody:
		content, err := encodeJSON(v)
		if err != nil {
			return EncodedBody{}, fmt.Errorf("encode json body: %w: %w", ErrRequestBuild, err)
		}
		return EncodedBody{
			Payload:     []byte(content),
			Content:     content,
			ContentType: ContentTypeJSON,
		}, nil
	case FormBody:
		content := encodeForm(v)
		return EncodedBody{
			Payload:     []byte(content),
			Content:     content,
			ContentType: ContentTypeForm,
		}, nil
	case BinaryBody:
		return EncodedBody{
			Payload:     []byte(v),
			ContentType: ContentTypeBinary,
		}, nil
	default:
		return EncodedBody{}, fmt.Errorf("unsupported body type %T: %w", b, ErrRequestBuild)
	}
}

func encodeJSON(v JSONBody) (string, error) {
	if v == nil {
		v = JSONBody{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(v)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func encodeForm(form FormBody) string {
	keys := sortedKeys(form)

	var segments []string
	for _, key := range keys {
		value := form[key]
		encKey := PercentEncode(key)

		switch value.kind {
		case formString:
			segments = append(segments, encKey+"="+PercentEncode(value.str))
		case formList:
			for _, item := range value.list {
				segments = append(segments, encKey+"="+PercentEncode(item))
			}
		case formMap:
			for _, sub := range sortedKeys(value.nested) {
				segments = append(segments, PercentEncode(sub)+"="+PercentEncode(value.nested[sub]))
			}
		}
	}

	return strings.Join(segments, "&")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
