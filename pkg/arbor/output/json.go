package output

import (
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/arbor/pkg/arbor/tree"
)

// formatJSON writes the canonical tree, ignoring collapse state.
func formatJSON(w io.Writer, v *View) error {
	if v.Root == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	data, err := json.MarshalIndent(v.Root, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

type yamlNode struct {
	Name     string      `yaml:"name"`
	Children *[]yamlNode `yaml:"children,omitempty"`
}

func toYAML(n *tree.Node) yamlNode {
	out := yamlNode{Name: n.Name}
	if n.Children != nil {
		children := make([]yamlNode, len(n.Children))
		for i, c := range n.Children {
			children[i] = toYAML(c)
		}
		out.Children = &children
	}
	return out
}

// formatYAML writes the canonical tree. Absent and empty children stay
// distinct as in JSON.
func formatYAML(w io.Writer, v *View) error {
	if v.Root == nil {
		_, err := io.WriteString(w, "null\n")
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(v.Root)); err != nil {
		return err
	}
	return enc.Close()
}
