package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/scienceboard/scienceboard/game/engine"
	"github.com/scienceboard/scienceboard/game/service"
)

var (
	ErrRulesNotFound = errors.New("rule set not found")
	ErrInvalidRules  = errors.New("invalid rule set")
)

// Manager handles rule set loading and caching.
type Manager struct {
	rulesDir     string
	defaultRules *engine.Rules
	rules        map[string]*engine.Rules
	mu           sync.RWMutex
}

// NewManager creates a new rule set manager.
func NewManager(rulesDir string) (*Manager, error) {
	if _, err := os.Stat(rulesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("rules directory does not exist: %s", rulesDir)
	}

	m := &Manager{
		rulesDir: rulesDir,
		rules:    make(map[string]*engine.Rules),
	}

	if err := m.loadDefaultRules(); err != nil {
		return nil, fmt.Errorf("failed to load default rules: %w", err)
	}

	return m, nil
}

// LoadRules loads a rule set by name.
func (m *Manager) LoadRules(name string) (*engine.Rules, error) {
	m.mu.RLock()
	// Check cache first
	if rules, exists := m.rules[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.rules[name]; exists {
		return rules, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	rulesPath := filepath.Join(m.rulesDir, filename)

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesNotFound
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	// Presets only override what they care about; everything else keeps
	// the classic defaults.
	rules := engine.DefaultRules()
	if err := json.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	if err := engine.ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	// Cache the rule set
	m.rules[name] = rules
	return rules, nil
}

// ListRules returns information about all available rule sets.
func (m *Manager) ListRules() ([]*service.RulesInfo, error) {
	entries, err := os.ReadDir(m.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var infos []*service.RulesInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for the rule set name
		name := strings.TrimSuffix(entry.Name(), ".json")

		rules, err := m.LoadRules(name)
		if err != nil {
			// Skip invalid rule sets
			continue
		}

		infos = append(infos, &service.RulesInfo{
			Filename:      entry.Name(),
			RulesID:       name, // This is the identifier to use for session creation
			Name:          rules.Name,
			Description:   rules.Description,
			StartingMoney: rules.StartingMoney,
			RentCurve:     rules.RentCurve,
		})
	}

	return infos, nil
}

// GetDefault returns the default rule set.
func (m *Manager) GetDefault() *engine.Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRules
}

// SetDefault sets the default rule set by name.
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadRules(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRules = rules
	return nil
}

// RefreshCache reloads all cached rule sets from disk.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.rules = make(map[string]*engine.Rules)
	m.mu.Unlock()

	// loadDefaultRules goes through LoadRules, which takes the lock itself.
	return m.loadDefaultRules()
}

// ReloadRules drops one rule set from the cache and loads it fresh from disk.
func (m *Manager) ReloadRules(name string) error {
	m.mu.Lock()
	delete(m.rules, name)
	m.mu.Unlock()

	_, err := m.LoadRules(name)
	return err
}

// Count reports how many rule sets are currently cached.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// loadDefaultRules loads the default rule set, preferring classic.json.
func (m *Manager) loadDefaultRules() error {
	rules, err := m.LoadRules("classic")
	if err != nil {
		// Try the first available rule set
		infos, listErr := m.ListRules()
		if listErr != nil || len(infos) == 0 {
			rules = engine.DefaultRules()
		} else if rules, err = m.LoadRules(strings.TrimSuffix(infos[0].Filename, ".json")); err != nil {
			rules = engine.DefaultRules()
		}
	}

	m.mu.Lock()
	m.defaultRules = rules
	m.mu.Unlock()
	return nil
}

// SaveRules saves a rule set to disk.
func (m *Manager) SaveRules(name string, rules *engine.Rules) error {
	if err := engine.ValidateRules(rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	rulesPath := filepath.Join(m.rulesDir, filename)

	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	if err := os.WriteFile(rulesPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.rules[name] = rules
	m.mu.Unlock()

	return nil
}
