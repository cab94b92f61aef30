package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultType  = "Unknown"
	defaultColor = "#6c757d"
)

// Host is one monitored target. The full set is replaced wholesale on
// reload; individual hosts are never mutated after loading.
type Host struct {
	Address      string `json:"ip"`
	Type         string `json:"type"`
	Color        string `json:"color"`
	KnownOffline bool   `json:"known_offline"`
}

type hostsFile struct {
	Hosts []listEntry `yaml:"hosts"`
}

// ipEntry is a single address inside a group. The YAML shape is either a
// plain scalar ("10.0.0.1") or a one-key mapping with flags
// ("10.0.0.1: {known_offline: true}").
type ipEntry struct {
	Address      string
	KnownOffline bool
}

func (e *ipEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		e.Address = strings.TrimSpace(node.Value)
		return nil
	case yaml.MappingNode:
		if len(node.Content) < 2 || node.Content[0].Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: host entry mapping must be keyed by an address", node.Line)
		}
		e.Address = strings.TrimSpace(node.Content[0].Value)

		details := node.Content[1]
		if details.Kind == yaml.MappingNode {
			var flags struct {
				KnownOffline bool `yaml:"known_offline"`
			}
			if err := details.Decode(&flags); err != nil {
				return fmt.Errorf("line %d: host flags for %q: %w", details.Line, e.Address, err)
			}
			e.KnownOffline = flags.KnownOffline
		}
		return nil
	default:
		return fmt.Errorf("line %d: host entry must be an address or an address mapping", node.Line)
	}
}

// listEntry is one element of the top-level hosts list: either a group
// block ({type, color, ips}) or a bare host entry from the legacy flat
// format. Both normalize to the same Host representation here so nothing
// downstream branches on input shape.
type listEntry struct {
	hosts []Host
}

func (l *listEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode && mappingHasKey(node, "ips") {
		var group struct {
			Type  string    `yaml:"type"`
			Color string    `yaml:"color"`
			IPs   []ipEntry `yaml:"ips"`
		}
		if err := node.Decode(&group); err != nil {
			return fmt.Errorf("line %d: host group: %w", node.Line, err)
		}
		if group.Type == "" {
			group.Type = defaultType
		}
		if group.Color == "" {
			group.Color = defaultColor
		}
		for _, entry := range group.IPs {
			if entry.Address == "" {
				continue
			}
			l.hosts = append(l.hosts, Host{
				Address:      entry.Address,
				Type:         group.Type,
				Color:        group.Color,
				KnownOffline: entry.KnownOffline,
			})
		}
		return nil
	}

	var entry ipEntry
	if err := entry.UnmarshalYAML(node); err != nil {
		return err
	}
	if entry.Address != "" {
		l.hosts = append(l.hosts, Host{
			Address:      entry.Address,
			Type:         defaultType,
			Color:        defaultColor,
			KnownOffline: entry.KnownOffline,
		})
	}
	return nil
}

func mappingHasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Load reads and normalizes the hosts file. It fails on unreadable files,
// malformed YAML, duplicate addresses, and host lists that resolve empty.
func Load(path string) ([]Host, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hosts file: %w", err)
	}

	var file hostsFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse hosts file: %w", err)
	}

	var hosts []Host
	seen := make(map[string]struct{})
	for _, entry := range file.Hosts {
		for _, h := range entry.hosts {
			if _, dup := seen[h.Address]; dup {
				return nil, fmt.Errorf("duplicate host address %q", h.Address)
			}
			seen[h.Address] = struct{}{}
			hosts = append(hosts, h)
		}
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("hosts file %s contains no hosts", path)
	}

	return hosts, nil
}
