package moderation

import (
	"strings"
	"testing"
)

func TestModerator_Classify(t *testing.T) {
	m := NewModerator(nil, nil, nil)

	tests := []struct {
		name string
		text string
		want Severity
	}{
		{
			name: "clean greeting",
			text: "Oi",
			want: SeverityNone,
		},
		{
			name: "empty string",
			text: "",
			want: SeverityNone,
		},
		{
			name: "heavy word",
			text: "vai se foder",
			want: SeverityHeavy,
		},
		{
			name: "heavy word uppercase",
			text: "VAI SE FODER",
			want: SeverityHeavy,
		},
		{
			name: "heavy word embedded in sentence",
			text: "olha, vai se foder com isso aí",
			want: SeverityHeavy,
		},
		{
			name: "light word",
			text: "que droga",
			want: SeverityLight,
		},
		{
			name: "light word mixed case",
			text: "Que DROGA de dia",
			want: SeverityLight,
		},
		{
			name: "heavy dominates light",
			text: "que droga, vai se foder",
			want: SeverityHeavy,
		},
		{
			name: "accented light word",
			text: "estou com muito ódio hoje",
			want: SeverityLight,
		},
		{
			name: "question about symptoms",
			text: "Quais são os sintomas da fibromialgia?",
			want: SeverityNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestModerator_ClassifyCustomLists(t *testing.T) {
	m := NewModerator([]string{"banido"}, []string{"feio"}, nil)

	if got := m.Classify("isso é BANIDO e feio"); got != SeverityHeavy {
		t.Errorf("Classify() = %v, want SeverityHeavy", got)
	}
	if got := m.Classify("que feio"); got != SeverityLight {
		t.Errorf("Classify() = %v, want SeverityLight", got)
	}
	if got := m.Classify("vai se foder"); got != SeverityNone {
		t.Errorf("Classify() with custom lists = %v, want SeverityNone", got)
	}
}

func TestModerator_ResponseHeavy(t *testing.T) {
	m := NewModerator(nil, nil, nil)

	first := m.Response(SeverityHeavy)
	second := m.Response(SeverityHeavy)

	if first != second {
		t.Error("Response(SeverityHeavy) should be a fixed message")
	}
	if !strings.HasSuffix(first, ClosingMarker) {
		t.Errorf("Response(SeverityHeavy) = %q, missing closing marker", first)
	}
}

func TestModerator_ResponseLight(t *testing.T) {
	for i := range LightResponsePool() {
		m := NewModerator(nil, nil, func(n int) int { return i })
		got := m.Response(SeverityLight)

		if !strings.HasSuffix(got, ClosingMarker) {
			t.Errorf("Response(SeverityLight) = %q, missing closing marker", got)
		}

		want := LightResponsePool()[i] + ClosingMarker
		if got != want {
			t.Errorf("Response(SeverityLight) with pick=%d = %q, want %q", i, got, want)
		}
	}
}

func TestModerator_ResponseLightInPool(t *testing.T) {
	m := NewModerator(nil, nil, nil)

	for i := 0; i < 20; i++ {
		got := m.Response(SeverityLight)
		body := strings.TrimSuffix(got, ClosingMarker)

		found := false
		for _, candidate := range LightResponsePool() {
			if body == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Response(SeverityLight) = %q, not in the de-escalation pool", got)
		}
	}
}

func TestModerator_ResponseNone(t *testing.T) {
	m := NewModerator(nil, nil, nil)
	if got := m.Response(SeverityNone); got != "" {
		t.Errorf("Response(SeverityNone) = %q, want empty", got)
	}
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityNone, "none"},
		{SeverityLight, "light"},
		{SeverityHeavy, "heavy"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
