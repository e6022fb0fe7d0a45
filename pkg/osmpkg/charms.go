// SPDX-License-Identifier: MPL-2.0

package osmpkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	charmsDirName     = "charms"
	layersDirName     = "layers"
	buildsDirName     = "builds"
	interfacesDirName = "interfaces"

	vnfDescriptorSuffix = "nfd.yaml"
	nsDescriptorSuffix  = "nsd.yaml"
)

// charmScope tracks where in the descriptor tree the walk currently is.
type charmScope int

const (
	scopeNone charmScope = iota
	// scopeVDUEntry is a direct child mapping of a "vdu" sequence.
	scopeVDUEntry
	// scopeConfig is anywhere below a configuration block.
	scopeConfig
)

// ExtractCharms returns the charm names referenced by a descriptor of type t,
// in document order with duplicates preserved. A charm is a scalar under a
// "charm" key inside a "<t>-configuration" block, or inside the
// "vdu-configuration" block of a "vdu" entry.
func ExtractCharms(data []byte, t PackageType) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}

	w := charmWalker{configKey: string(t) + "-configuration"}
	w.walk(&doc, scopeNone)
	return w.charms, nil
}

type charmWalker struct {
	configKey string
	charms    []string
}

func (w *charmWalker) walk(node *yaml.Node, scope charmScope) {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			w.walk(child, scope)
		}
	case yaml.AliasNode:
		if node.Alias != nil {
			w.walk(node.Alias, scope)
		}
	case yaml.SequenceNode:
		childScope := scope
		if scope == scopeVDUEntry {
			childScope = scopeNone
		}
		for _, child := range node.Content {
			w.walk(child, childScope)
		}
	case yaml.MappingNode:
		// Content alternates key, value.
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i].Value, resolveAlias(node.Content[i+1])

			if scope == scopeConfig && key == "charm" && value.Kind == yaml.ScalarNode && value.Tag != "!!null" {
				w.charms = append(w.charms, value.Value)
				continue
			}

			switch {
			case scope == scopeConfig:
				w.walk(value, scopeConfig)
			case key == w.configKey:
				w.walk(value, scopeConfig)
			case key == "vdu-configuration" && scope == scopeVDUEntry:
				w.walk(value, scopeConfig)
			case key == "vdu" && value.Kind == yaml.SequenceNode:
				for _, entry := range value.Content {
					w.walk(resolveAlias(entry), scopeVDUEntry)
				}
			default:
				w.walk(value, scopeNone)
			}
		}
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}

// findCharmDescriptor returns the descriptor whose name ends in nfd.yaml or
// nsd.yaml, directly inside folder. The lexically first match wins.
func (t *Tool) findCharmDescriptor(folder string) (string, PackageType, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", "", fmt.Errorf("reading package %s: %w", folder, err)
	}

	var candidates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, vnfDescriptorSuffix) || strings.HasSuffix(name, nsDescriptorSuffix)) {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", "", &NotFoundError{Kind: NotFoundDescriptor, Name: folder}
	}

	sort.Strings(candidates)
	if len(candidates) > 1 {
		t.logger.Warn("more than one descriptor found, using the first", "package", folder, "descriptors", candidates)
	}

	chosen := candidates[0]
	descType := PackageTypeNS
	if strings.HasSuffix(chosen, vnfDescriptorSuffix) {
		descType = PackageTypeVNF
	}
	return filepath.Join(folder, chosen), descType, nil
}

// ResolveCharms lists the charms referenced by the package descriptor and,
// unless skipBuild is set, makes sure each one is available: sources under
// charms/layers/<name> are built with the build tool, charms/<name> is taken
// as pre-built, anything else is a NotFoundError. The full ordered list is
// returned in both modes.
func (t *Tool) ResolveCharms(ctx context.Context, folder string, skipBuild bool) ([]string, error) {
	descriptorPath, descType, err := t.findCharmDescriptor(folder)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor: %w", err)
	}
	charms, err := ExtractCharms(data, descType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", descriptorPath, err)
	}
	t.logger.Info("charms referenced in the descriptor", "descriptor", descriptorPath, "charms", charms)

	if skipBuild {
		return charms, nil
	}

	charmsDir := filepath.Join(folder, charmsDirName)
	layersDir := filepath.Join(charmsDir, layersDirName)
	for _, name := range charms {
		source := filepath.Join(layersDir, name)
		if isDir(source) {
			t.logger.Info("building charm", "charm", name, "source", source)
			if err := t.buildTool.Build(ctx, BuildRequest{
				Name:      name,
				SourceDir: source,
				LayersDir:     layersDir,
				InterfacesDir: filepath.Join(charmsDir, interfacesDirName),
				RepositoryDir: charmsDir,
				BuildDir:      filepath.Join(charmsDir, buildsDirName),
			}); err != nil {
				return nil, err
			}
			t.logger.Info("charm built", "charm", name)
			continue
		}

		if !isDir(filepath.Join(charmsDir, name)) {
			return nil, &NotFoundError{
				Kind:      NotFoundCharm,
				Name:      name,
				Locations: []string{charmsDir, layersDir},
			}
		}
	}

	return charms, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
