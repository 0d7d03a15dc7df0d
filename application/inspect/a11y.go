// Package inspect turns the accessibility tree of a page into a small,
// bounded description.
package inspect

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"robotdriver/domain/entities"
	"robotdriver/domain/interfaces"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultDepth is how many levels below the root are kept
	DefaultDepth = 2
	// MaxChildren bounds the children kept per node
	MaxChildren = 30

	rootRole = "WebArea"
	textRole = "text"
)

// valueRoles carry their inline text as the control value rather than content
var valueRoles = map[string]bool{
	"textbox":    true,
	"searchbox":  true,
	"combobox":   true,
	"spinbutton": true,
	"slider":     true,
}

var headerPattern = regexp.MustCompile(`^(\S+)(?:\s+("(?:[^"\\]|\\.)*"|/(?:[^/\\]|\\.)*/))?`)

// Describe - navigates to url and returns its pruned accessibility tree
func Describe(ctx context.Context, page interfaces.Page, url string, depth int) (*entities.PageDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := page.Goto(url); err != nil {
		return nil, err
	}
	snapshot, err := page.AriaSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot accessibility tree: %w", err)
	}
	tree, err := ParseSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	return &entities.PageDescription{
		URL:  page.URL(),
		A11y: Prune(tree, depth, MaxChildren),
	}, nil
}

// Prune - keeps role, name and value, at most maxChildren children per node
// and depth levels below node
func Prune(node *entities.A11yNode, depth, maxChildren int) *entities.A11yNode {
	if node == nil {
		return nil
	}
	slim := &entities.A11yNode{Role: node.Role, Name: node.Name, Value: node.Value}
	if depth > 0 && len(node.Children) > 0 {
		kids := node.Children
		if len(kids) > maxChildren {
			kids = kids[:maxChildren]
		}
		slim.Children = make([]*entities.A11yNode, 0, len(kids))
		for _, kid := range kids {
			slim.Children = append(slim.Children, Prune(kid, depth-1, maxChildren))
		}
	}
	return slim
}

// ParseSnapshot - converts an ARIA snapshot (YAML) into a node tree rooted at
// a WebArea node
func ParseSnapshot(snapshot string) (*entities.A11yNode, error) {
	root := &entities.A11yNode{Role: rootRole}
	if strings.TrimSpace(snapshot) == "" {
		return root, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(snapshot), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse aria snapshot: %w", err)
	}
	if len(doc.Content) == 0 {
		return root, nil
	}
	children, err := parseItems(doc.Content[0])
	if err != nil {
		return nil, err
	}
	root.Children = children
	return root, nil
}

func parseItems(seq *yaml.Node) ([]*entities.A11yNode, error) {
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("aria snapshot: expected a list at line %d", seq.Line)
	}
	var nodes []*entities.A11yNode
	for _, item := range seq.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			nodes = append(nodes, parseHeader(item.Value))
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				key, val := item.Content[i], item.Content[i+1]
				// "/url", "/placeholder" and friends are properties, not nodes
				if strings.HasPrefix(key.Value, "/") {
					continue
				}
				node := parseHeader(key.Value)
				if err := attach(node, val); err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
			}
		default:
			return nil, fmt.Errorf("aria snapshot: unexpected node at line %d", item.Line)
		}
	}
	return nodes, nil
}

// attach - adds the mapping value of a node as its text, value or children
func attach(node *entities.A11yNode, val *yaml.Node) error {
	switch val.Kind {
	case yaml.ScalarNode:
		if val.Value == "" {
			return nil
		}
		text := val.Value
		switch {
		case node.Role == textRole:
			node.Name = &text
		case valueRoles[node.Role]:
			node.Value = &text
		default:
			node.Children = append(node.Children, &entities.A11yNode{Role: textRole, Name: &text})
		}
	case yaml.SequenceNode:
		kids, err := parseItems(val)
		if err != nil {
			return err
		}
		node.Children = append(node.Children, kids...)
	}
	return nil
}

// parseHeader - splits `role "name" [attr]` into role and name
func parseHeader(header string) *entities.A11yNode {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(header))
	if m == nil {
		return &entities.A11yNode{Role: header}
	}
	node := &entities.A11yNode{Role: m[1]}
	if raw := m[2]; raw != "" {
		name := raw
		if strings.HasPrefix(raw, `"`) {
			if unquoted, err := strconv.Unquote(raw); err == nil {
				name = unquoted
			} else {
				name = strings.Trim(raw, `"`)
			}
		}
		node.Name = &name
	}
	return node
}
