package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/scienceboard/scienceboard/game/service"
	"github.com/scienceboard/scienceboard/game/tsv"
)

var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrInvalidDataset  = errors.New("invalid dataset")
)

// Manager handles question dataset loading, uploads, and caching. Uploaded
// question images live in memory keyed by filename.
type Manager struct {
	datasetDir string
	datasets   map[string][]tsv.Row
	images     map[string][]byte
	mu         sync.RWMutex
}

// NewManager creates a new dataset manager.
func NewManager(datasetDir string) (*Manager, error) {
	if _, err := os.Stat(datasetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset directory does not exist: %s", datasetDir)
	}

	return &Manager{
		datasetDir: datasetDir,
		datasets:   make(map[string][]tsv.Row),
		images:     make(map[string][]byte),
	}, nil
}

// Load loads and parses a dataset by name.
func (m *Manager) Load(name string) ([]tsv.Row, error) {
	m.mu.RLock()
	// Check cache first
	if rows, exists := m.datasets[name]; exists {
		m.mu.RUnlock()
		return rows, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rows, exists := m.datasets[name]; exists {
		return rows, nil
	}

	path := filepath.Join(m.datasetDir, tsvFilename(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDatasetNotFound
		}
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	rows := tsv.Parse(string(data))
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no usable rows", ErrInvalidDataset, name)
	}

	m.datasets[name] = rows
	return rows, nil
}

// Store validates and saves an uploaded dataset. Encrypted uploads are
// decrypted with the given passphrase before anything touches disk.
func (m *Manager) Store(name, text, passphrase string) error {
	if name == "" {
		return fmt.Errorf("%w: dataset name is required", ErrInvalidDataset)
	}

	if tsv.IsEncrypted(text) {
		if passphrase == "" {
			return fmt.Errorf("%w: dataset is encrypted, passphrase required", ErrInvalidDataset)
		}
		plain, err := tsv.Decrypt(text, passphrase)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
		}
		text = plain
	}

	rows := tsv.Parse(text)
	if len(rows) == 0 {
		return fmt.Errorf("%w: no usable rows", ErrInvalidDataset)
	}

	path := filepath.Join(m.datasetDir, tsvFilename(name))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.datasets[strings.TrimSuffix(tsvFilename(name), ".tsv")] = rows
	m.mu.Unlock()

	return nil
}

// List returns information about all available datasets.
func (m *Manager) List() ([]*service.DatasetInfo, error) {
	entries, err := os.ReadDir(m.datasetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	var infos []*service.DatasetInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tsv") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".tsv")
		rows, err := m.Load(name)
		if err != nil {
			// Skip unreadable datasets
			continue
		}

		topics, _ := m.Topics(name)
		topicNames := make([]string, 0, len(topics))
		for _, topic := range topics {
			topicNames = append(topicNames, topic.BigTopic)
		}

		infos = append(infos, &service.DatasetInfo{
			Filename:  entry.Name(),
			DatasetID: name, // This is the identifier to use for session creation
			Rows:      len(rows),
			Topics:    topicNames,
		})
	}

	return infos, nil
}

// Topics returns the distinct big topics in a dataset, each with its
// distinct modules in first-appearance order.
func (m *Manager) Topics(name string) ([]service.TopicInfo, error) {
	rows, err := m.Load(name)
	if err != nil {
		return nil, err
	}

	order := []string{}
	modules := map[string][]string{}
	for _, row := range rows {
		topic := row.Get("bigTopic")
		if topic == "" {
			continue
		}
		if _, seen := modules[topic]; !seen {
			order = append(order, topic)
			modules[topic] = nil
		}
		mod := row.Get("module")
		if mod == "" {
			continue
		}
		if !contains(modules[topic], mod) {
			modules[topic] = append(modules[topic], mod)
		}
	}

	infos := make([]service.TopicInfo, 0, len(order))
	for _, topic := range order {
		infos = append(infos, service.TopicInfo{BigTopic: topic, Modules: modules[topic]})
	}
	return infos, nil
}

// StoreImage keeps an uploaded question image in memory.
func (m *Manager) StoreImage(filename string, data []byte) error {
	if filename == "" || len(data) == 0 {
		return fmt.Errorf("%w: image filename and data are required", ErrInvalidDataset)
	}
	m.mu.Lock()
	m.images[filename] = data
	m.mu.Unlock()
	return nil
}

// Image returns an uploaded image by filename.
func (m *Manager) Image(filename string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.images[filename]
	return data, ok
}

// ImageNames returns the filenames of all uploaded images, sorted.
func (m *Manager) ImageNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.images))
	for name := range m.images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveImage turns a question's image reference into a URL. Uploaded
// images win, then absolute and data URLs pass through, and anything else
// falls back to the static question_images path.
func (m *Manager) ResolveImage(image string) string {
	if image == "" {
		return ""
	}
	m.mu.RLock()
	_, uploaded := m.images[image]
	m.mu.RUnlock()
	if uploaded {
		return "/images/" + image
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") ||
		strings.HasPrefix(image, "data:") || strings.HasPrefix(image, "/") {
		return image
	}
	return "/question_images/" + image
}

// RefreshCache drops all cached datasets, forcing reloads from disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets = make(map[string][]tsv.Row)
}

func tsvFilename(name string) string {
	if !strings.HasSuffix(name, ".tsv") {
		return name + ".tsv"
	}
	return name
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
