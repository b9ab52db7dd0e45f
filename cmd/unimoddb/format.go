package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"unimoddb"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// MassResponse is the output of the mass and id commands
type MassResponse struct {
	Name     string  `json:"name" yaml:"name"`
	MassType string  `json:"massType" yaml:"massType"`
	Mass     float64 `json:"mass" yaml:"mass"`
}

// FormulaResponse is the output of the formula command
type FormulaResponse struct {
	Name    string         `json:"name" yaml:"name"`
	Formula map[string]int `json:"formula" yaml:"formula"`
}

// ModsEntry is one (name, mass) group in the mods/ptms output
type ModsEntry struct {
	Name  string   `json:"name" yaml:"name"`
	Mass  float64  `json:"mass" yaml:"mass"`
	Sites []string `json:"sites" yaml:"sites"`
}

// ModsResponse is the output of the mods and ptms commands
type ModsResponse struct {
	MassType string      `json:"massType" yaml:"massType"`
	Class    string      `json:"class,omitempty" yaml:"class,omitempty"`
	Entries  []ModsEntry `json:"entries" yaml:"entries"`
}

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil
	case FormatYAML:
		data, err := yaml.Marshal(resp)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	case FormatHuman:
		return formatHuman(resp), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatHuman(resp interface{}) string {
	switch v := resp.(type) {
	case *MassResponse:
		return fmt.Sprintf("%s\t%f (%s)", v.Name, v.Mass, v.MassType)
	case *FormulaResponse:
		elements := make([]string, 0, len(v.Formula))
		for el := range v.Formula {
			elements = append(elements, el)
		}
		sort.Strings(elements)

		var b strings.Builder
		for i, el := range elements {
			if i > 0 {
				b.WriteByte(' ')
			}
			if n := v.Formula[el]; n == 1 {
				b.WriteString(el)
			} else {
				fmt.Fprintf(&b, "%s(%d)", el, n)
			}
		}
		return fmt.Sprintf("%s\t%s", v.Name, b.String())
	case *ModsResponse:
		var b strings.Builder
		for _, e := range v.Entries {
			fmt.Fprintf(&b, "%s\t%f\t%s\n", e.Name, e.Mass, strings.Join(e.Sites, ","))
		}
		return strings.TrimRight(b.String(), "\n")
	default:
		data, _ := json.MarshalIndent(resp, "", "  ")
		return string(data)
	}
}

// modsResponse flattens a site map into deterministic output order
func modsResponse(mods unimoddb.ModSiteMap, massType, class string) *ModsResponse {
	resp := &ModsResponse{
		MassType: massType,
		Class:    class,
		Entries:  make([]ModsEntry, 0, len(mods)),
	}
	for k, sites := range mods {
		resp.Entries = append(resp.Entries, ModsEntry{Name: k.Name, Mass: k.Mass, Sites: sites})
	}
	sort.Slice(resp.Entries, func(i, j int) bool {
		if resp.Entries[i].Name != resp.Entries[j].Name {
			return resp.Entries[i].Name < resp.Entries[j].Name
		}
		return resp.Entries[i].Mass < resp.Entries[j].Mass
	})
	return resp
}
