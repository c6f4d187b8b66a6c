package domain

import "testing"

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.EntropyThreshold != 3.65 {
		t.Errorf("expected EntropyThreshold=3.65, got %v", p.EntropyThreshold)
	}
	if !p.BlockNonSecureHTTP {
		t.Error("expected BlockNonSecureHTTP=true by default")
	}
	if p.UseHeuristicCheck {
		t.Error("expected UseHeuristicCheck=false by default")
	}
	if len(p.WhitelistDomains) != 0 || len(p.BlockedDomains) != 0 {
		t.Error("default policy should carry no domain lists")
	}
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		wantErr   bool
	}{
		{"zero", 0, false},
		{"typical", 3.65, false},
		{"max byte entropy", 8.0, false},
		{"negative", -0.1, true},
		{"above max", 8.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Policy{EntropyThreshold: tt.threshold}
			err := p.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error for threshold %v", tt.threshold)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for threshold %v: %v", tt.threshold, err)
			}
		})
	}
}
