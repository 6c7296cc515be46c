package month

// Codec translates between Month and one external representation.
type Codec interface {
	Encode(Month) any
	Decode(v any) (Month, error)
}

var (
	// DateCodec speaks the first-of-month date form, "YYYY-MM-01".
	DateCodec Codec = dateCodec{}
	// KeyCodec speaks the integer YYYYMM form.
	KeyCodec Codec = keyCodec{}
)

type dateCodec struct{}

func (dateCodec) Encode(m Month) any { return m.Date() }

func (dateCodec) Decode(v any) (Month, error) {
	if s, ok := v.(string); ok {
		return ParseDate(s)
	}
	return Parse(v)
}

type keyCodec struct{}

func (keyCodec) Encode(m Month) any { return m.Key() }

func (keyCodec) Decode(v any) (Month, error) {
	if s, ok := v.(string); ok {
		return ParseKey(s)
	}
	return Parse(v)
}
