// Package timedtext parses the platform's caption track documents into cue
// sequences. The format is a flat XML list of <text> elements carrying start
// and dur attributes in seconds, with HTML-ish markup allowed in the body.
package timedtext

import (
	"bytes"
	"encoding/xml"
	stdhtml "html"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"yt-transcript/errors"
	"yt-transcript/models"
)

type textElement struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",innerxml"`
}

// Parse converts a raw caption document into cues in document order. A
// document that parses but contains no cues yields an empty, valid sequence.
// Regional variants omit the XML declaration or carry odd charset labels, so
// the decoder accepts any declared encoding as-is.
func Parse(doc []byte) ([]models.Cue, error) {
	const op = "timedtext.Parse"

	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	cues := []models.Cue{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.XMLParse(op, "", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "text" {
			continue
		}

		var el textElement
		if err := dec.DecodeElement(&el, &start); err != nil {
			return nil, errors.XMLParse(op, "", err)
		}

		cues = append(cues, models.Cue{
			Text:     cleanText(el.Body),
			Start:    parseSeconds(el.Start),
			Duration: parseSeconds(el.Dur),
		})
	}

	return cues, nil
}

// parseSeconds converts a start/dur attribute to seconds. A missing or
// malformed attribute counts as zero rather than failing the document.
func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// cleanText renders a cue body as plain text: line-break markup becomes a
// newline, other inline styling tags are dropped, and entities are decoded.
// A second unescape pass handles the double-escaped entities the platform
// emits for generated tracks.
func cleanText(body string) string {
	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteString("\n")
			}
		}
	}

	return strings.TrimSpace(stdhtml.UnescapeString(b.String()))
}
