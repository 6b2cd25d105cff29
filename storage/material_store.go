package storage

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/printhaus/printhaus-api/models"
)

// MaterialFile is the data file backing the material registry.
const MaterialFile = "materials.txt"

// MaterialStore is the in-memory material registry with flat-file
// persistence. Materials are deduplicated by name, their natural key, and
// kept in insertion order so saves are deterministic. The store owns its
// entities: it keeps copies of what it is handed and accessors return
// copies.
type MaterialStore struct {
	mu        sync.Mutex
	files     *DataFileManager
	materials []*models.Material
}

// NewMaterialStore creates an empty material registry persisted through the
// given file manager.
func NewMaterialStore(files *DataFileManager) *MaterialStore {
	return &MaterialStore{files: files}
}

// Add registers a material. Rejects nil materials, blank names and
// duplicates by name without overwriting.
func (s *MaterialStore) Add(material *models.Material) bool {
	if material == nil || material.Name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findLocked(material.Name) != nil {
		return false
	}
	owned := *material
	s.materials = append(s.materials, &owned)
	return true
}

// GetByName returns a copy of the material with the given name, or nil.
func (s *MaterialStore) GetByName(name string) *models.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMaterial(s.findLocked(name))
}

// GetAll returns a snapshot of the registry in insertion order.
func (s *MaterialStore) GetAll() []*models.Material {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Material, len(s.materials))
	for i, m := range s.materials {
		out[i] = copyMaterial(m)
	}
	return out
}

// Update replaces the material with the same name. Returns false if no such
// material is registered.
func (s *MaterialStore) Update(material *models.Material) bool {
	if material == nil || material.Name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.materials {
		if existing.Name == material.Name {
			owned := *material
			s.materials[i] = &owned
			return true
		}
	}
	return false
}

// Remove deletes the material with the given name. Returns false if absent.
func (s *MaterialStore) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.materials {
		if existing.Name == name {
			s.materials = append(s.materials[:i], s.materials[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of registered materials.
func (s *MaterialStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.materials)
}

// Clear empties the registry without touching the data file.
func (s *MaterialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials = nil
}

// Save serializes the registry to its data file. Returns false if the write
// fails; the failure is logged, never propagated.
func (s *MaterialStore) Save() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := fileHeader("materials", time.Now())
	for _, m := range s.materials {
		lines = append(lines, serializeMaterial(m))
	}
	return s.files.WriteDataFile(MaterialFile, joinLines(lines))
}

// Load clears the registry and reloads it from the data file. Individual
// lines that fail to parse are skipped with a warning; a missing or empty
// file loads as an empty registry with success.
func (s *MaterialStore) Load() bool {
	lines, ok := s.files.ReadDataLines(MaterialFile)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.materials = nil
	for _, line := range lines {
		if !isRecordLine(line) {
			continue
		}
		material, err := parseMaterial(line)
		if err != nil {
			log.Printf("Skipping bad material record: %v", err)
			continue
		}
		if s.findLocked(material.Name) != nil {
			log.Printf("Skipping duplicate material record %q", material.Name)
			continue
		}
		s.materials = append(s.materials, material)
	}
	return true
}

// copyMaterial returns a detached copy of the material, or nil for nil.
func copyMaterial(m *models.Material) *models.Material {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// findLocked looks a material up by name. Caller must hold s.mu.
func (s *MaterialStore) findLocked(name string) *models.Material {
	for _, m := range s.materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// serializeMaterial renders a material as one record line.
func serializeMaterial(m *models.Material) string {
	return joinFields([]string{
		m.Name,
		strconv.FormatFloat(m.CostPerGram, 'f', -1, 64),
		strconv.Itoa(m.PrintTemp),
		m.Color,
	})
}

// parseMaterial parses one record line into a material.
func parseMaterial(line string) (*models.Material, error) {
	fields := splitFields(line)
	if len(fields) != 4 {
		return nil, fmt.Errorf("material record has %d fields, want 4", len(fields))
	}
	if fields[0] == "" {
		return nil, fmt.Errorf("material record has empty name")
	}

	costPerGram, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("material %q has bad cost: %w", fields[0], err)
	}
	printTemp, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("material %q has bad print temperature: %w", fields[0], err)
	}

	return &models.Material{
		Name:        fields[0],
		CostPerGram: costPerGram,
		PrintTemp:   printTemp,
		Color:       fields[3],
	}, nil
}
