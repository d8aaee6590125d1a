// Copyright (c) 2025 sqlblock
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"

	"sqlblock/cli/internal/logging"
)

// securityBackend implements keychain operations using macOS security command.
type securityBackend struct {
	log *pterm.Logger
}

func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	lvl := "info"
	if logging.IsVerbose() {
		lvl = "debug"
	}
	return &securityBackend{log: logging.New(lvl, false, nil)}, nil
}

// Set stores a key-value pair, replacing any previous entry.
func (s *securityBackend) Set(key, value string) error {
	s.log.Debug("keychain set", s.log.Args("key", key, "length", len(value)))

	if err := s.Delete(key); err != nil {
		s.log.Debug("keychain delete before set failed", s.log.Args("key", key, "error", err))
	}

	cmd := exec.Command("security", "add-generic-password",
		"-a", ServiceName, // account name
		"-s", key, // service name
		"-w", value, // password
		"-U", // update if exists
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to store '%s' in keychain: %s: %w", key, strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

// Get retrieves a value; a missing entry yields a "key not found" error.
func (s *securityBackend) Get(key string) (string, error) {
	s.log.Debug("keychain get", s.log.Args("key", key))

	cmd := exec.Command("security", "find-generic-password", "-a", ServiceName, "-s", key, "-w")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "could not be found") {
			return "", fmt.Errorf("key not found")
		}
		return "", fmt.Errorf("failed to retrieve from keychain: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Delete removes a key; a missing entry is not an error.
func (s *securityBackend) Delete(key string) error {
	cmd := exec.Command("security", "delete-generic-password", "-a", ServiceName, "-s", key)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "could not be found") {
			return nil
		}
		return fmt.Errorf("failed to delete from keychain: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
