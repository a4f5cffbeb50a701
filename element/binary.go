package element

import (
	"fmt"
	"time"

	"github.com/viant/bintly"
)

// EncodeBinary encodes the element into a binary stream.
func (e *Element) EncodeBinary(stream *bintly.Writer) error {
	stream.String(e.ID)
	stream.String(string(e.Category))
	stream.String(e.Text)

	intKeys := make([]string, 0, len(e.Metadata))
	float64Keys := make([]string, 0, len(e.Metadata))
	stringKeys := make([]string, 0, len(e.Metadata))
	timeKeys := make([]string, 0, len(e.Metadata))
	for k, v := range e.Metadata {
		switch v.(type) {
		case int:
			intKeys = append(intKeys, k)
		case float64:
			float64Keys = append(float64Keys, k)
		case string:
			stringKeys = append(stringKeys, k)
		case time.Time:
			timeKeys = append(timeKeys, k)
		default:
			return fmt.Errorf("unsupported EncodeBinary type %T", v)
		}
	}

	stream.Int16(int16(len(intKeys)))
	for _, k := range intKeys {
		stream.String(k)
		stream.Int(e.Metadata[k].(int))
	}
	stream.Int16(int16(len(float64Keys)))
	for _, k := range float64Keys {
		stream.String(k)
		stream.Float64(e.Metadata[k].(float64))
	}
	stream.Int16(int16(len(stringKeys)))
	for _, k := range stringKeys {
		stream.String(k)
		stream.String(e.Metadata[k].(string))
	}
	stream.Int16(int16(len(timeKeys)))
	for _, k := range timeKeys {
		stream.String(k)
		stream.Time(e.Metadata[k].(time.Time))
	}
	return nil
}

// DecodeBinary decodes the element from a binary stream.
func (e *Element) DecodeBinary(stream *bintly.Reader) error {
	stream.String(&e.ID)
	var category string
	stream.String(&category)
	e.Category = Category(category)
	stream.String(&e.Text)

	e.Metadata = make(Metadata)
	var size int16
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value int
		stream.Int(&value)
		e.Metadata[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value float64
		stream.Float64(&value)
		e.Metadata[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value string
		stream.String(&value)
		e.Metadata[key] = value
	}
	stream.Int16(&size)
	for i := 0; i < int(size); i++ {
		var key string
		stream.String(&key)
		var value time.Time
		stream.Time(&value)
		e.Metadata[key] = value
	}
	if len(e.Metadata) == 0 {
		e.Metadata = nil
	}
	return nil
}

// Marshal encodes elements to a compact binary payload for cache persistence.
func Marshal(elements Elements) ([]byte, error) {
	writers := bintly.NewWriters()
	writer := writers.Get()
	defer writers.Put(writer)
	writer.Int32(int32(len(elements)))
	for _, item := range elements {
		if err := item.EncodeBinary(writer); err != nil {
			return nil, err
		}
	}
	return writer.Bytes(), nil
}

// Unmarshal decodes a binary payload produced by Marshal.
func Unmarshal(data []byte) (Elements, error) {
	readers := bintly.NewReaders()
	reader := readers.Get()
	defer readers.Put(reader)
	if err := reader.FromBytes(data); err != nil {
		return nil, err
	}
	var count int32
	reader.Int32(&count)
	out := make(Elements, 0, count)
	for i := 0; i < int(count); i++ {
		item := &Element{}
		if err := item.DecodeBinary(reader); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
