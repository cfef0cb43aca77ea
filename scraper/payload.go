package scraper

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/titanous/json5"
	"github.com/use-agent/deckscope/jsonvalue"
	"github.com/use-agent/deckscope/models"
	"golang.org/x/net/html"
)

const payloadMarker = "script#__NEXT_DATA__ or inline __NEXT_DATA__ assignment"

var (
	selNextData     = cascadia.MustCompile(`script#__NEXT_DATA__`)
	selInlineScript = cascadia.MustCompile(`script:not([src])`)

	reNextDataAssign = regexp.MustCompile(`(?:window\.)?__NEXT_DATA__\s*=\s*`)
	reBuildID        = regexp.MustCompile(`"buildId"\s*:\s*"([^"]+)"`)
)

// LocatePayload finds and decodes the embedded page state of a server
// rendered page. Both the dedicated script element and the older inline
// assignment form are accepted.
func LocatePayload(rawHTML, url string) (*jsonvalue.Value, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewParsingError("could not parse page HTML", url, err.Error())
	}

	if node := cascadia.Query(doc, selNextData); node != nil {
		v, err := jsonvalue.Parse([]byte(scriptText(node)))
		if err != nil {
			return nil, models.NewParsingError("embedded page data is not valid JSON", url, "script#__NEXT_DATA__: "+err.Error())
		}
		return v, nil
	}

	for _, node := range cascadia.QueryAll(doc, selInlineScript) {
		text := scriptText(node)
		loc := reNextDataAssign.FindStringIndex(text)
		if loc == nil {
			continue
		}
		v, err := decodeAssignment(text[loc[1]:])
		if err != nil {
			return nil, models.NewParsingError("embedded page data is not valid JSON", url, "inline __NEXT_DATA__ assignment: "+err.Error())
		}
		return v, nil
	}

	return nil, models.NewParsingError("could not find embedded page data", url, payloadMarker)
}

// decodeAssignment decodes the value that starts text. Strict JSON is tried
// first; object literals with unquoted keys or trailing commas fall back to
// JSON5.
func decodeAssignment(text string) (*jsonvalue.Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, strictErr := jsonvalue.Decode(dec)
	if strictErr == nil {
		return v, nil
	}
	if errors.Is(strictErr, jsonvalue.ErrTooDeep) {
		return nil, strictErr
	}

	literal := strings.TrimSpace(text)
	literal = strings.TrimSpace(strings.TrimSuffix(literal, ";"))
	if err := jsonvalue.CheckDepth([]byte(literal)); err != nil {
		return nil, err
	}
	var loose any
	if err := json5.Unmarshal([]byte(literal), &loose); err != nil {
		return nil, strictErr
	}
	return jsonvalue.FromAny(loose), nil
}

func scriptText(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

// BuildID returns the Next.js build id mentioned in the page, or "".
func BuildID(rawHTML string) string {
	if m := reBuildID.FindStringSubmatch(rawHTML); m != nil {
		return m[1]
	}
	return ""
}
