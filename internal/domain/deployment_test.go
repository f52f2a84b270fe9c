package domain

import "testing"

func TestNormalizeProviderStatus(t *testing.T) {
	cases := []struct {
		state string
		want  string
	}{
		{"BUILDING", DeployStatusBuilding},
		{"INITIALIZING", DeployStatusBuilding},
		{"building", DeployStatusBuilding},
		{"READY", DeployStatusReady},
		{"ERROR", DeployStatusError},
		{"CANCELED", DeployStatusError},
		{"QUEUED", DeployStatusPending},
		{"", DeployStatusPending},
		{"  ready  ", DeployStatusReady},
	}
	for _, tc := range cases {
		if got := NormalizeProviderStatus(tc.state); got != tc.want {
			t.Fatalf("NormalizeProviderStatus(%q) = %q, want %q", tc.state, got, tc.want)
		}
	}
}

func TestDeploymentKey(t *testing.T) {
	record := DeploymentRecord{ProjectID: "p1", CommitSHA: "abc12345"}
	if record.Key() != "p1-abc12345" {
		t.Fatalf("unexpected key: %q", record.Key())
	}
}
