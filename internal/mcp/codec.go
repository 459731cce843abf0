package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxMessageBytes bounds a single framed message.
const maxMessageBytes = 8 << 20

const contentLengthHeader = "content-length"

type wireMode int

const (
	wireModeFramed wireMode = iota
	wireModeJSONLine
)

func (m wireMode) String() string {
	if m == wireModeJSONLine {
		return "json-line"
	}
	return "framed"
}

// codec reads and writes JSON-RPC messages on a stdio stream. Each message
// is answered in the framing it arrived in.
type codec struct {
	r    *bufio.Reader
	w    *bufio.Writer
	mode wireMode
}

func newCodec(in io.Reader, out io.Writer) *codec {
	return &codec{r: bufio.NewReader(in), w: bufio.NewWriter(out)}
}

// read returns the next message payload and remembers its framing.
func (c *codec) read() ([]byte, error) {
	if err := c.skipSpace(); err != nil {
		return nil, err
	}
	peek, err := c.r.Peek(len(contentLengthHeader))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if strings.EqualFold(string(peek), contentLengthHeader) {
		c.mode = wireModeFramed
		return c.readFramed()
	}
	c.mode = wireModeJSONLine
	return c.readLine()
}

// write encodes msg using the framing of the last message read.
func (c *codec) write(msg response) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if c.mode == wireModeJSONLine {
		payload = append(payload, '\n')
	} else if _, err := fmt.Fprintf(c.w, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	if _, err := c.w.Write(payload); err != nil {
		return err
	}
	return c.w.Flush()
}

func (c *codec) skipSpace() error {
	for {
		b, err := c.r.Peek(1)
		if err != nil {
			return err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = c.r.ReadByte()
		default:
			return nil
		}
	}
}

// readLine reads one newline-terminated message of at most maxMessageBytes.
func (c *codec) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, err := c.r.ReadSlice('\n')
		if len(line)+len(chunk) > maxMessageBytes {
			return nil, fmt.Errorf("message exceeds limit of %d bytes", maxMessageBytes)
		}
		line = append(line, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		break
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, io.EOF
	}
	return line, nil
}

func (c *codec) readFramed() ([]byte, error) {
	length := -1
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), contentLengthHeader) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length: %w", err)
		}
		length = n
	}
	switch {
	case length <= 0:
		return nil, errors.New("missing or invalid Content-Length")
	case length > maxMessageBytes:
		return nil, fmt.Errorf("message of %d bytes exceeds limit of %d", length, maxMessageBytes)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
