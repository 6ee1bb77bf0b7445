// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

// Model summarizes a loaded glTF document.
type Model struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Scenes     []string `json:"scenes"`
	Nodes      int      `json:"nodes"`
	Meshes     int      `json:"meshes"`
	Primitives int      `json:"primitives"`
	Vertices   int      `json:"vertices"`
	Materials  int      `json:"materials"`
}

func (m *Model) String() string {
	return fmt.Sprintf("%s: %d scene(s), %d mesh(es), %d vertices", m.Name, len(m.Scenes), m.Meshes, m.Vertices)
}

// Load parses the binary (.glb) or JSON (.gltf) document at path.
func Load(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidModel, path, err)
	}

	return summarize(path, doc), nil
}

func summarize(path string, doc *gltf.Document) *Model {
	base := filepath.Base(path)
	m := &Model{
		Name:      strings.TrimSuffix(base, filepath.Ext(base)),
		Path:      path,
		Scenes:    make([]string, 0, len(doc.Scenes)),
		Nodes:     len(doc.Nodes),
		Meshes:    len(doc.Meshes),
		Materials: len(doc.Materials),
	}

	for i, scene := range doc.Scenes {
		name := scene.Name
		if name == "" {
			name = fmt.Sprintf("scene-%d", i)
		}
		m.Scenes = append(m.Scenes, name)
	}

	for _, mesh := range doc.Meshes {
		m.Primitives += len(mesh.Primitives)
		for _, p := range mesh.Primitives {
			idx, ok := p.Attributes[gltf.POSITION]
			if !ok || idx < 0 || idx >= len(doc.Accessors) {
				continue
			}
			m.Vertices += doc.Accessors[idx].Count
		}
	}

	return m
}
