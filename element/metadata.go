package element

// Metadata carries free-form, partitioner-supplied context for an element.
type Metadata map[string]interface{}

// Well-known metadata keys shared across partitioners and sinks.
const (
	MetaFilename   = "filename"
	MetaFiletype   = "filetype"
	MetaPageNumber = "page_number"
	MetaSheet      = "sheet"
	MetaRowRange   = "row_range"
	MetaSender     = "sender"
	MetaRecipient  = "recipient"
	MetaSubject    = "subject"
	MetaDate       = "date"
	MetaURL        = "url"
	MetaSection    = "section"
)

// Clone returns a shallow copy so callers can annotate without aliasing.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String returns the value under key when it is a string.
func (m Metadata) String(key string) string {
	if m == nil {
		return ""
	}
	v, _ := m[key].(string)
	return v
}

// Int returns the value under key coerced to int when possible.
func (m Metadata) Int(key string) int {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
