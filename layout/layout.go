// Package layout decodes fixed-offset fields out of raw account data.
//
// A Layout lists each field's name, byte offset, width and decoder. Offsets
// are constants of the owning program's account format; nothing is inferred
// from the data itself.
package layout

import (
	"encoding/binary"
	"errors"
	"fmt"

	sgo "github.com/gagliardetto/solana-go"
)

var ErrShortBuffer = errors.New("account data too short")
var ErrUnknownField = errors.New("unknown field")

type Decoder func(b []byte) (interface{}, error)

type Field struct {
	Name   string
	Offset int
	Width  int
	Decode Decoder
}

type Layout struct {
	Name   string
	Fields []Field
}

// Record holds decoded values by field name.
type Record map[string]interface{}

func (l Layout) Field(name string) (Field, error) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, l.Name, name)
}

// Size is the smallest buffer that holds every field.
func (l Layout) Size() int {
	n := 0
	for _, f := range l.Fields {
		if end := f.Offset + f.Width; n < end {
			n = end
		}
	}
	return n
}

func (f Field) Read(data []byte) (interface{}, error) {
	end := f.Offset + f.Width
	if f.Offset < 0 || len(data) < end {
		return nil, fmt.Errorf("%w: field %s needs [%d,%d) but have %d bytes", ErrShortBuffer, f.Name, f.Offset, end, len(data))
	}
	return f.Decode(data[f.Offset:end])
}

// DecodeField decodes one named field.
func (l Layout) DecodeField(data []byte, name string) (interface{}, error) {
	f, err := l.Field(name)
	if err != nil {
		return nil, err
	}
	return f.Read(data)
}

// Decode decodes every field.
func (l Layout) Decode(data []byte) (Record, error) {
	r := make(Record, len(l.Fields))
	for _, f := range l.Fields {
		v, err := f.Read(data)
		if err != nil {
			return nil, err
		}
		r[f.Name] = v
	}
	return r, nil
}

func (l Layout) PublicKey(data []byte, name string) (sgo.PublicKey, error) {
	v, err := l.DecodeField(data, name)
	if err != nil {
		return sgo.PublicKey{}, err
	}
	pk, ok := v.(sgo.PublicKey)
	if !ok {
		return sgo.PublicKey{}, fmt.Errorf("field %s is %T, not a public key", name, v)
	}
	return pk, nil
}

func (l Layout) Uint64(data []byte, name string) (uint64, error) {
	v, err := l.DecodeField(data, name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case uint64:
		return x, nil
	case uint32:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	default:
		return 0, fmt.Errorf("field %s is %T, not an integer", name, v)
	}
}

func (l Layout) Bool(data []byte, name string) (bool, error) {
	v, err := l.DecodeField(data, name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %s is %T, not a bool", name, v)
	}
	return b, nil
}

func PublicKeyField(name string, offset int) Field {
	return Field{Name: name, Offset: offset, Width: sgo.PublicKeyLength, Decode: decodePublicKey}
}

func U8Field(name string, offset int) Field {
	return Field{Name: name, Offset: offset, Width: 1, Decode: func(b []byte) (interface{}, error) {
		return b[0], nil
	}}
}

func BoolField(name string, offset int) Field {
	return Field{Name: name, Offset: offset, Width: 1, Decode: func(b []byte) (interface{}, error) {
		switch b[0] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, fmt.Errorf("field %s: invalid bool byte %d", name, b[0])
		}
	}}
}

// U32Field and U64Field are little endian.
func U32Field(name string, offset int) Field {
	return Field{Name: name, Offset: offset, Width: 4, Decode: func(b []byte) (interface{}, error) {
		return binary.LittleEndian.Uint32(b), nil
	}}
}

func U64Field(name string, offset int) Field {
	return Field{Name: name, Offset: offset, Width: 8, Decode: func(b []byte) (interface{}, error) {
		return binary.LittleEndian.Uint64(b), nil
	}}
}

func decodePublicKey(b []byte) (interface{}, error) {
	return sgo.PublicKeyFromBytes(b), nil
}
