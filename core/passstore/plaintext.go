package passstore

import (
	"bytes"
	"strings"
)

// Plaintext is a decrypted secret body. The first line is the password, the
// following lines may hold "key: value" properties.
type Plaintext struct {
	data []byte
}

// NewPlaintext wraps a decrypted body. The slice is owned by the Plaintext.
func NewPlaintext(data []byte) *Plaintext {
	return &Plaintext{data: data}
}

// FirstLine returns the first line of the body without its line ending.
// It reports false for an empty body.
func (p *Plaintext) FirstLine() (string, bool) {
	if len(p.data) == 0 {
		return "", false
	}
	line := p.data
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return string(bytes.TrimSuffix(line, []byte("\r"))), true
}

// Property returns the trimmed value of the first "name: value" line after the
// password line. Names are matched exactly.
func (p *Plaintext) Property(name string) (string, bool) {
	lines := strings.Split(string(p.data), "\n")
	if len(lines) < 2 {
		return "", false
	}
	for _, line := range lines[1:] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == name {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// Destroy zeroes the body. The Plaintext must not be used afterwards.
func (p *Plaintext) Destroy() {
	for i := range p.data {
		p.data[i] = 0
	}
	p.data = nil
}
