package feed

import (
	"bytes"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

var xmlDeclEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// declaredCharset returns the charset named by the Content-Type header or,
// failing that, by the XML declaration.
func declaredCharset(raw []byte, contentType string) string {
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			if cs := strings.TrimSpace(params["charset"]); cs != "" {
				return cs
			}
		}
	}
	head := raw
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimPrefix(head, []byte("\ufeff"))
	if m := xmlDeclEncoding.FindSubmatch(head); m != nil {
		return string(m[1])
	}
	return ""
}

func decodeBody(raw []byte, contentType string) (string, error) {
	charset := declaredCharset(raw, contentType)
	if charset == "" || isUTF8Label(charset) {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("body is not valid UTF-8")
		}
		return string(raw), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return "", fmt.Errorf("unsupported charset %q", charset)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("transcode from %s: %w", charset, err)
	}
	return string(decoded), nil
}

func isUTF8Label(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}
