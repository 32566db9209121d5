package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ── Decoding / encoding ────────────────────────────────────
// encoding/json alone cannot give us both insertion-ordered objects and
// arbitrary-precision numbers, so decoding walks the token stream with
// UseNumber and builds *Object / []any trees by hand. Encoding is plain
// json.Marshal: Object marshals in insertion order and json.Number emits
// its literal text, so big integers round-trip byte-for-byte.

// Decode reads a single JSON value from r.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// Reject trailing garbage after the value.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// DecodeString decodes a single JSON value from s.
func DecodeString(s string) (any, error) {
	return Decode(bytes.NewReader([]byte(s)))
}

// DecodeBytes decodes a single JSON value from b.
func DecodeBytes(b []byte) (any, error) {
	return Decode(bytes.NewReader(b))
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFrom(dec, tok)
}

func decodeFrom(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool, or nil
		return tok, nil
	}
	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is not a string: %v", keyTok)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// Encode serializes a value tree to compact JSON.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// EncodeString serializes a value tree to a compact JSON string.
func EncodeString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeIndent serializes a value tree to indented JSON.
func EncodeIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
