package main

import (
	"os"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Science Around the Board Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalRulesDir := *rulesDir
	originalDatasetDir := *datasetDir
	originalSessionsDir := *sessionsDir
	*rulesDir = "configs"
	*datasetDir = "datasets"
	*sessionsDir = t.TempDir()
	defer func() {
		*rulesDir = originalRulesDir
		*datasetDir = originalDatasetDir
		*sessionsDir = originalSessionsDir
	}()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	if _, err := os.Stat("datasets"); os.IsNotExist(err) {
		t.Skip("Skipping test - datasets directory not found")
	}

	gameService, sessionManager, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if sessionManager == nil {
		t.Fatal("Expected session manager to be initialized")
	}
}

func TestInitializeServices_InvalidRulesDir(t *testing.T) {
	originalRulesDir := *rulesDir
	*rulesDir = "/non/existent/path"
	defer func() { *rulesDir = originalRulesDir }()

	_, _, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent rules directory")
	}
}

func TestInitializeServices_InvalidDatasetDir(t *testing.T) {
	originalRulesDir := *rulesDir
	originalDatasetDir := *datasetDir
	*rulesDir = "configs"
	*datasetDir = "/non/existent/path"
	defer func() {
		*rulesDir = originalRulesDir
		*datasetDir = originalDatasetDir
	}()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	_, _, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent dataset directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	// Test that flags have reasonable defaults
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *rulesDir == "" {
		t.Error("Rules directory should have a default value")
	}

	if *datasetDir == "" {
		t.Error("Dataset directory should have a default value")
	}
}

func TestEnvOrDefault(t *testing.T) {
	const key = "SCIENCEBOARD_TEST_ENV"

	os.Unsetenv(key)
	if got := envOrDefault(key, "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}

	os.Setenv(key, "custom")
	defer os.Unsetenv(key)
	if got := envOrDefault(key, "fallback"); got != "custom" {
		t.Errorf("Expected custom, got %s", got)
	}
}

// Note: We can't easily test main(), runHTTPServer(), and runStdioMCPWithInternalServer()
// without significant mocking or refactoring, as they start servers and block.
// These functions would be better tested in integration tests that start actual servers
// and test their endpoints.
