package harload

import (
	"encoding/json"
	"io"
)

// HARDecoder is the token level json reader used to walk a capture without
// holding the whole document in memory.
// to swap to sonic: create SonicDecoder implementing HARDecoder, update newHARDecoder()
type HARDecoder interface {
	Token() (json.Token, error)
	Decode(v interface{}) error
	More() bool
	InputOffset() int64
}

// StdlibDecoder wraps encoding/json.Decoder to implement HARDecoder
type StdlibDecoder struct {
	decoder *json.Decoder
}

func (s *StdlibDecoder) Token() (json.Token, error) {
	return s.decoder.Token()
}

func (s *StdlibDecoder) Decode(v interface{}) error {
	return s.decoder.Decode(v)
}

func (s *StdlibDecoder) More() bool {
	return s.decoder.More()
}

func (s *StdlibDecoder) InputOffset() int64 {
	return s.decoder.InputOffset()
}

func newHARDecoder(r io.Reader) HARDecoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return &StdlibDecoder{decoder: d}
}

type jsonHelper struct{}

var helper = &jsonHelper{}

func (h *jsonHelper) skipValue(decoder HARDecoder) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}

	switch token {
	case json.Delim('{'):
		return h.skipObject(decoder)
	case json.Delim('['):
		return h.skipArray(decoder)
	}

	return nil
}

func (h *jsonHelper) skipObject(decoder HARDecoder) error {
	for decoder.More() {
		if _, err := decoder.Token(); err != nil {
			return err
		}
		if err := h.skipValue(decoder); err != nil {
			return err
		}
	}
	_, err := decoder.Token()
	return err
}

func (h *jsonHelper) skipArray(decoder HARDecoder) error {
	for decoder.More() {
		if err := h.skipValue(decoder); err != nil {
			return err
		}
	}
	_, err := decoder.Token()
	return err
}

// expectDelim consumes the next token and checks it is the given delimiter
func (h *jsonHelper) expectDelim(decoder HARDecoder, delim json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if token != delim {
		return &FormatError{Offset: decoder.InputOffset(), Reason: "expected " + delim.String() + ", got " + tokenString(token)}
	}
	return nil
}

func tokenString(token json.Token) string {
	switch t := token.(type) {
	case json.Delim:
		return t.String()
	case string:
		return "string " + t
	case json.Number:
		return "number " + t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return "unknown token"
	}
}
