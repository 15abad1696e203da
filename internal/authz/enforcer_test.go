// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

package authz

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedPolicy(t *testing.T) {
	e, err := NewEnforcer(EnforcerConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}

	const salonPath = "/api/v1/salons/6f1c2b1e-2a4d-4a55-9f43-0d2b7c1e9a10/customers"
	tests := []struct {
		role, path, action string
		want               bool
	}{
		{"platform_admin", "/api/v1/platform/analytics", "read", true},
		{"platform_admin", "/api/v1/platform/security", "read", true},
		{"platform_admin", salonPath + "/insights", "read", true},
		{"platform_admin", salonPath + "/c1/lifetime-value", "read", true},
		{"salon_owner", "/api/v1/platform/analytics", "read", false},
		{"salon_owner", salonPath + "/insights", "read", true},
		{"salon_owner", salonPath + "/c1/lifetime-value", "read", true},
		{"staff", salonPath + "/insights", "read", true},
		{"staff", salonPath + "/c1/churn", "read", true},
		{"staff", salonPath + "/c1/lifetime-value", "read", false},
		{"staff", "/api/v1/platform/security", "read", false},
		{"salon_owner", salonPath + "/insights", "write", false},
		{"anonymous", salonPath + "/insights", "read", false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.path, tt.action)
		if err != nil {
			t.Fatalf("Enforce: %v", err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.path, tt.action, got, tt.want)
		}
	}
}

func TestPolicyFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, staff, /api/v1/platform/*, read\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	e, err := NewEnforcer(EnforcerConfig{PolicyPath: path})
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	if ok, _ := e.Enforce("staff", "/api/v1/platform/analytics", "read"); !ok {
		t.Error("file policy should grant staff platform access")
	}
	if ok, _ := e.Enforce("platform_admin", "/api/v1/platform/analytics", "read"); ok {
		t.Error("file policy replaces the embedded one")
	}
}

func TestMethodToAction(t *testing.T) {
	for method, want := range map[string]string{
		"GET": "read", "HEAD": "read", "POST": "write", "PATCH": "write", "DELETE": "delete",
	} {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}
