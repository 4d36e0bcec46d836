// Package parse turns user-supplied text into canonical trees.
//
// Two input formats are supported: a JSON object shaped like a folder node
// ({"name": ..., "children": [...]}) and a delimited path string such as
// "root/src/components". Dir additionally imports a real directory hierarchy.
package parse

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/goccy/go-json"
	"github.com/jamesainslie/arbor/pkg/arbor/tree"
	"github.com/jamesainslie/arbor/pkg/arbor/treepath"
)

// ErrMalformedInput is returned when JSON input is syntactically invalid or
// does not have the shape of a folder node.
var ErrMalformedInput = errors.New("malformed input")

// pathSeparators matches both forward and backward slashes.
var pathSeparators = regexp.MustCompile(`[\\/]`)

// JSON parses a folder tree from JSON text.
//
// A node must be an object with a string "name". "children", when present and
// not null, must be an array of nodes. Unknown keys are ignored.
func JSON(text string) (*tree.Node, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedInput)
	}

	if !json.Valid(data) {
		var raw any
		err := json.Unmarshal(data, &raw)
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	return decodeNode(data, "$")
}

// decodeNode validates and converts one raw JSON value. at is a JSONPath-like
// location used in error messages.
func decodeNode(raw json.RawMessage, at string) (*tree.Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: %s is not an object", ErrMalformedInput, at)
	}

	rawName, ok := fields["name"]
	if !ok {
		return nil, fmt.Errorf("%w: %s is missing \"name\"", ErrMalformedInput, at)
	}
	// Unmarshalling null into a string leaves it untouched.
	var name string
	if isNull(rawName) || json.Unmarshal(rawName, &name) != nil {
		return nil, fmt.Errorf("%w: %s.name is not a string", ErrMalformedInput, at)
	}

	node := &tree.Node{Name: treepath.CleanSegment(name)}

	rawChildren, ok := fields["children"]
	if !ok || isNull(rawChildren) {
		return node, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawChildren, &items); err != nil {
		return nil, fmt.Errorf("%w: %s.children is not an array", ErrMalformedInput, at)
	}

	node.Children = make([]*tree.Node, 0, len(items))
	for i, item := range items {
		child, err := decodeNode(item, fmt.Sprintf("%s.children[%d]", at, i))
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// PathString builds a linear chain from a delimited path. Both "/" and "\"
// separate segments and empty segments are dropped, so leading, trailing and
// repeated separators are tolerated. Input without segments yields a single
// unnamed node. Every node carries an empty children slice.
func PathString(text string) *tree.Node {
	var segments []string
	for _, s := range pathSeparators.Split(text, -1) {
		if s != "" {
			segments = append(segments, treepath.CleanSegment(s))
		}
	}

	if len(segments) == 0 {
		return tree.New("")
	}

	node := tree.New(segments[len(segments)-1])
	for i := len(segments) - 2; i >= 0; i-- {
		node = tree.New(segments[i], node)
	}
	return node
}

// Serialize renders a tree as two-space indented JSON, the persisted form.
func Serialize(root *tree.Node) ([]byte, error) {
	if root == nil {
		return nil, errors.New("cannot serialize an empty tree")
	}
	return json.MarshalIndent(root, "", "  ")
}
