package domain

import (
	"testing"

	"gorm.io/datatypes"
)

func TestMergeStepsMonotonic(t *testing.T) {
	existing := datatypes.JSONMap{
		StepDomainRegistered: true,
		StepDNSConfigured:    true,
	}

	// Stale poll reports an already-completed phase as false.
	merged := MergeSteps(existing, map[string]bool{
		StepDomainRegistered: false,
		StepSiteGenerated:    true,
	})

	for _, key := range []string{StepDomainRegistered, StepDNSConfigured, StepSiteGenerated} {
		if got, _ := merged[key].(bool); !got {
			t.Errorf("expected %s to be true, got false", key)
		}
	}
	for _, key := range []string{StepDeployed, StepLive} {
		if got, _ := merged[key].(bool); got {
			t.Errorf("expected %s to stay false", key)
		}
	}
}

func TestMergeStepsEmptyExisting(t *testing.T) {
	merged := MergeSteps(nil, map[string]bool{StepDeployed: true})
	if got, _ := merged[StepDeployed].(bool); !got {
		t.Fatalf("expected deployed true")
	}
	if len(merged) != len(PublishStepKeys()) {
		t.Fatalf("expected all %d keys materialized, got %d", len(PublishStepKeys()), len(merged))
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusBuilding, true},
		{StatusDraft, StatusLive, true},
		{StatusDraft, StatusError, false},
		{StatusBuilding, StatusLive, true},
		{StatusBuilding, StatusError, true},
		{StatusBuilding, StatusDraft, false},
		{StatusLive, StatusBuilding, false},
		{StatusLive, StatusError, false},
		{StatusError, StatusLive, false},
		{StatusError, StatusBuilding, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSiteContentEmptyColumn(t *testing.T) {
	var s Site
	content, err := s.Content()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.BusinessName != "" || len(content.Services) != 0 {
		t.Fatalf("expected zero content, got %+v", content)
	}
}

func TestSiteContentMalformed(t *testing.T) {
	s := Site{SiteContent: datatypes.JSON(`{"colors":`)}
	if _, err := s.Content(); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSiteSteps(t *testing.T) {
	s := Site{PublishSteps: datatypes.JSONMap{StepLive: true}}
	steps := s.Steps()
	if !steps[StepLive] {
		t.Errorf("expected live flag true")
	}
	if steps[StepDeployed] {
		t.Errorf("expected absent flag reported false")
	}
}
