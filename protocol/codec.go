package protocol

import (
	"bytes"
	"consultoria-tcp/errors"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// Decode parses one request line. It never panics: anything that is not a
// single JSON object yields ErrInvalidMessage and an empty Message.
func Decode(line []byte) (Message, error) {
	var m Message
	if err := decodeStrict(line, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// DecodeResponse parses a reply line, keeping numbers as json.Number so that
// re-encoding reproduces the original line.
func DecodeResponse(line []byte) (Response, error) {
	var r Response
	if err := decodeStrict(line, &r); err != nil {
		return Response{}, err
	}
	return r, nil
}

func decodeStrict(line []byte, target any) error {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", errors.ErrInvalidMessage)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidMessage, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after object", errors.ErrInvalidMessage)
	}
	return nil
}

// RequestIDHint extracts a requestId from a line that failed to decode, so
// the error reply can still be correlated by the client.
func RequestIDHint(line []byte) string {
	if !gjson.ValidBytes(line) && !bytes.HasPrefix(bytes.TrimSpace(line), []byte("{")) {
		return UnknownRequestID
	}
	id := gjson.GetBytes(line, "requestId")
	if id.Type != gjson.String || id.Str == "" {
		return UnknownRequestID
	}
	return id.Str
}

// EncodeResponse renders r as a single line without the trailing newline.
func EncodeResponse(r Response) ([]byte, error) {
	return encodeLine(r)
}

// EncodeMessage renders m as a single line without the trailing newline.
func EncodeMessage(m Message) ([]byte, error) {
	return encodeLine(m)
}

func encodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
