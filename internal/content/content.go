// Package content models the article body as it arrives from the blog API.
//
// The API sends the body in one of several shapes: an HTML string, an object
// with a flat text field, or an editor document made of typed blocks. The
// shape is decided once, when the JSON is decoded, and every consumer works
// with the resulting Kind.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Kind tags the variant held by a Content value.
type Kind int

const (
	Empty Kind = iota
	PlainText
	StructuredText
	StructuredBlocks
	Unknown
)

func (k Kind) String() string {
	switch k {
	case PlainText:
		return "plain_text"
	case StructuredText:
		return "structured_text"
	case StructuredBlocks:
		return "structured_blocks"
	case Unknown:
		return "unknown"
	default:
		return "empty"
	}
}

// Block is one entry of a block-based document.
type Block struct {
	Type string     `json:"type"`
	Data *BlockData `json:"data,omitempty"`
}

// BlockData is the payload of a block. Only text is read.
type BlockData struct {
	Text string `json:"text,omitempty"`
}

// Content is the tagged union. The zero value is Empty.
type Content struct {
	kind   Kind
	text   string
	blocks []Block
	raw    json.RawMessage
}

// Plain holds an HTML or plain string body.
func Plain(s string) Content {
	if s == "" {
		return Content{}
	}
	return Content{kind: PlainText, text: s}
}

// Text holds an object body with a direct text field.
func Text(s string) Content {
	return Content{kind: StructuredText, text: s}
}

// Blocks holds a block-based body.
func Blocks(blocks ...Block) Content {
	return Content{kind: StructuredBlocks, blocks: blocks}
}

// Raw holds a JSON value of any other shape. The value is re-encoded the way
// a browser serializes parsed JSON: compact, with string escapes resolved and
// numbers in shortest form. Key order is kept.
func Raw(data json.RawMessage) Content {
	return Content{kind: Unknown, raw: normalize(data)}
}

// Paragraph is a convenience for building a paragraph block.
func Paragraph(text string) Block {
	return Block{Type: "paragraph", Data: &BlockData{Text: text}}
}

// Kind reports which variant c holds.
func (c Content) Kind() Kind { return c.kind }

// IsEmpty reports whether the body carries no text source at all.
func (c Content) IsEmpty() bool { return c.kind == Empty }

// BlockList returns the blocks of a StructuredBlocks body, nil otherwise.
func (c Content) BlockList() []Block { return c.blocks }

// UnmarshalJSON decides the variant. Strings are PlainText; objects with a
// non-empty string "text" are StructuredText; objects with a "blocks" array
// are StructuredBlocks; other objects and arrays are Unknown. Null, numbers
// and booleans carry no text and decode as Empty.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*c = Content{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Plain(s)
		return nil
	case '{':
		*c = decodeObject(trimmed)
		return nil
	case '[':
		*c = Raw(trimmed)
		return nil
	default:
		// null, numbers and booleans
		*c = Content{}
		return nil
	}
}

func decodeObject(data []byte) Content {
	var probe struct {
		Text   json.RawMessage `json:"text"`
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Raw(data)
	}

	var text string
	if len(probe.Text) > 0 && json.Unmarshal(probe.Text, &text) == nil && text != "" {
		return Text(text)
	}

	if len(probe.Blocks) > 0 && probe.Blocks[0] == '[' {
		var blocks []Block
		if err := json.Unmarshal(probe.Blocks, &blocks); err == nil {
			return Blocks(blocks...)
		}
	}

	return Raw(data)
}

// MarshalJSON writes the variant back in its wire shape.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case PlainText:
		return json.Marshal(c.text)
	case StructuredText:
		return json.Marshal(struct {
			Text string `json:"text"`
		}{c.text})
	case StructuredBlocks:
		blocks := c.blocks
		if blocks == nil {
			blocks = []Block{}
		}
		return json.Marshal(struct {
			Blocks []Block `json:"blocks"`
		}{blocks})
	case Unknown:
		if len(c.raw) == 0 {
			return []byte("null"), nil
		}
		return c.raw, nil
	default:
		return []byte("null"), nil
	}
}

var errTrailingData = errors.New("trailing data after JSON value")

// normalize falls back to a copy of data when it is not a single JSON value.
func normalize(data []byte) json.RawMessage {
	dec := json.NewDecoder(bytes.NewReader(data))
	var buf bytes.Buffer
	err := reencode(dec, &buf)
	if err == nil {
		if _, tail := dec.Token(); tail != io.EOF {
			err = errTrailingData
		}
	}
	if err != nil {
		return append(json.RawMessage(nil), data...)
	}
	return buf.Bytes()
}

// reencode copies the next JSON value from dec to buf token by token, so
// object keys stay in their wire order.
func reencode(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		start, end := byte(v), byte('}')
		if v == '[' {
			end = ']'
		}
		buf.WriteByte(start)
		for i := 0; dec.More(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if start == '{' {
				key, err := dec.Token()
				if err != nil {
					return err
				}
				if err := writeString(buf, key.(string)); err != nil {
					return err
				}
				buf.WriteByte(':')
			}
			if err := reencode(dec, buf); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		buf.WriteByte(end)
	case string:
		return writeString(buf, v)
	case nil:
		buf.WriteString("null")
	default:
		// float64 and bool; encoding/json formats floats as JavaScript does
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
