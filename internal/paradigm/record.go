package paradigm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// SystemPrompt is the system message of chat-format records
// ("You are an expert in Icelandic grammar.").
const SystemPrompt = "Þú ert sérfræðingur í íslenskri málfræði."

// Prompt returns the task instruction for a nominative singular phrase:
// inflect it in all cases, singular and plural, without the article, and
// answer in JSON only.
func Prompt(phrase string) string {
	return fmt.Sprintf("Hvernig fallbeygist nafnliðurinn \"%s\" í öllum föllum (nf, þf, þgf, ef), "+
		"eintölu (et) og fleirtölu (ft), án greinis? Svaraðu í JSON formi eingöngu.", phrase)
}

// Format selects the record layout.
type Format string

const (
	// FormatCompletion writes {"prompt": ..., "completion": {...}}.
	FormatCompletion Format = "completion"
	// FormatChat writes {"input": [system, user], "ideal": "<completion json>"}
	// with a space after every separator, both in the line and in ideal.
	FormatChat Format = "chat"
)

func (f Format) String() string { return string(f) }

func (f Format) IsValid() bool {
	return f == FormatCompletion || f == FormatChat
}

// ParseFormat converts a config value into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.IsValid() {
		return "", domain.NewValidationError("record_format", fmt.Sprintf("unknown format %q", s))
	}
	return f, nil
}

type completionRecord struct {
	Prompt     string          `json:"prompt"`
	Completion domain.Paradigm `json:"completion"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRecord struct {
	Input []chatMessage `json:"input"`
	Ideal string        `json:"ideal"`
}

// Encode writes rec as a single JSON line. Output is byte-identical for
// equal records: keys follow struct order and non-ASCII text is not escaped.
func (f Format) Encode(w io.Writer, rec domain.Record) error {
	var line []byte
	switch f {
	case FormatCompletion:
		b, err := marshal(completionRecord{Prompt: rec.Prompt, Completion: rec.Completion})
		if err != nil {
			return err
		}
		line = b
	case FormatChat:
		ideal, err := marshal(rec.Completion)
		if err != nil {
			return err
		}
		b, err := marshal(chatRecord{
			Input: []chatMessage{
				{Role: "system", Content: SystemPrompt},
				{Role: "user", Content: rec.Prompt},
			},
			Ideal: string(spaceSeparators(ideal)),
		})
		if err != nil {
			return err
		}
		line = spaceSeparators(b)
	default:
		return fmt.Errorf("encode record: unknown format %q", f)
	}

	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Marshal returns the encoded line of rec, including the trailing newline.
func (f Format) Marshal(rec domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// spaceSeparators rewrites compact JSON with a space after every ',' and
// ':' outside string literals. This is the layout json.dumps produces with
// its default separators, which existing chat datasets use.
func spaceSeparators(compact []byte) []byte {
	out := make([]byte, 0, len(compact)+len(compact)/8)
	inString, escaped := false, false
	for _, c := range compact {
		out = append(out, c)
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == ',', c == ':':
			out = append(out, ' ')
		}
	}
	return out
}
