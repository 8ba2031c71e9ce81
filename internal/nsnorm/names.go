package nsnorm

import "bytes"

// nameMask replaces colons after the first in element and attribute names.
// encoding/xml refuses such names, but a one-byte substitute keeps every
// offset intact, so spans taken from the decoder still index the original
// document.
const nameMask = '_'

// decoderView returns doc as the decoder should see it: identical except
// for the masked name colons. doc itself is returned when nothing changes.
func decoderView(doc []byte) []byte {
	var view []byte
	mask := func(i int) {
		if view == nil {
			view = bytes.Clone(doc)
		}
		view[i] = nameMask
	}

	for i := 0; i < len(doc); {
		lt := bytes.IndexByte(doc[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		rest := doc[i:]
		switch {
		case bytes.HasPrefix(rest, []byte("<!--")):
			i = skipPast(doc, i+4, "-->")
		case bytes.HasPrefix(rest, []byte("<![CDATA[")):
			i = skipPast(doc, i+9, "]]>")
		case bytes.HasPrefix(rest, []byte("<?")):
			i = skipPast(doc, i+2, "?>")
		case bytes.HasPrefix(rest, []byte("<!")):
			i = skipDirective(doc, i+2)
		default:
			i = maskTag(doc, i+1, mask)
		}
	}
	if view == nil {
		return doc
	}
	return view
}

func skipPast(doc []byte, from int, end string) int {
	idx := bytes.Index(doc[from:], []byte(end))
	if idx < 0 {
		return len(doc)
	}
	return from + idx + len(end)
}

// skipDirective steps over <!DOCTYPE ...>, including an internal subset.
func skipDirective(doc []byte, i int) int {
	var quote byte
	depth := 0
	for ; i < len(doc); i++ {
		c := doc[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth <= 0:
			return i + 1
		}
	}
	return i
}

// maskTag walks a start or end tag beginning just after "<" and masks the
// extra colons of its names. Quoted attribute values are skipped. It returns
// the offset after the closing ">".
func maskTag(doc []byte, i int, mask func(int)) int {
	if i < len(doc) && doc[i] == '/' {
		i++
	}
	var quote byte
	inName := true
	colons := 0
	for ; i < len(doc); i++ {
		c := doc[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
			inName = false
		case '>':
			return i + 1
		case ' ', '\t', '\r', '\n', '=', '/':
			inName = false
		default:
			if !inName {
				inName = true
				colons = 0
			}
			if c == ':' {
				colons++
				if colons > 1 {
					mask(i)
				}
			}
		}
	}
	return i
}
