package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wallet is a tracked account: a display name and its on-chain address.
type Wallet struct {
	Name    string
	Address string
}

// Load reads a name → address mapping from a JSON or YAML file.
// Wallets are returned in file order; a repeated name keeps its first slot
// and takes the last address.
func Load(path string) ([]Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wallets file: %w", err)
	}

	var pairs [][2]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		pairs, err = parseYAML(data)
	default:
		pairs, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	wallets := make([]Wallet, 0, len(pairs))
	index := make(map[string]int, len(pairs))
	for _, p := range pairs {
		name, address := strings.TrimSpace(p[0]), strings.TrimSpace(p[1])
		if name == "" || address == "" {
			return nil, fmt.Errorf("wallet entry %q → %q: name and address are required", p[0], p[1])
		}
		if i, ok := index[name]; ok {
			wallets[i].Address = address
			continue
		}
		index[name] = len(wallets)
		wallets = append(wallets, Wallet{Name: name, Address: address})
	}

	return wallets, nil
}

func parseJSON(data []byte) ([][2]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object of name → address")
	}

	var pairs [][2]string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var address string
		if err := dec.Decode(&address); err != nil {
			return nil, fmt.Errorf("address of %q: %w", name, err)
		}
		pairs = append(pairs, [2]string{name, address})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}

func parseYAML(data []byte) ([][2]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of name → address")
	}

	pairs := make([][2]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("address of %q must be a string", key.Value)
		}
		pairs = append(pairs, [2]string{key.Value, value.Value})
	}
	return pairs, nil
}
