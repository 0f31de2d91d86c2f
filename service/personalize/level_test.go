package personalize

import "testing"

func intPtr(v int) *int {
	return &v
}

func TestScoreToLevel(t *testing.T) {
	tests := []struct {
		name  string
		score *int
		want  string
	}{
		{"nil score defaults to standard", nil, LevelStandard},
		{"zero", intPtr(0), LevelBasic},
		{"boundary 70", intPtr(70), LevelBasic},
		{"boundary 71", intPtr(71), LevelStandard},
		{"boundary 90", intPtr(90), LevelStandard},
		{"boundary 91", intPtr(91), LevelAdvanced},
		{"full marks", intPtr(100), LevelAdvanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreToLevel(tt.score); got != tt.want {
				t.Errorf("ScoreToLevel(%v) = %q, want %q", tt.score, got, tt.want)
			}
		})
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", LevelAuto},
		{"basic", LevelBasic},
		{"  Advanced ", LevelAdvanced},
		{"STANDARD", LevelStandard},
		{"expert", LevelAuto},
		{"0", LevelAuto},
	}

	for _, tt := range tests {
		if got := NormalizeLevel(tt.in); got != tt.want {
			t.Errorf("NormalizeLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		stored     string
		score      *int
		wantLevel  string
		wantSource string
		wantPhase  int
	}{
		{
			name:       "manual override wins over everything",
			override:   "advanced",
			stored:     "basic",
			score:      intPtr(40),
			wantLevel:  LevelAdvanced,
			wantSource: SourceManual,
			wantPhase:  PhaseFull,
		},
		{
			name:       "stored default wins over score",
			override:   "auto",
			stored:     "standard",
			score:      intPtr(30),
			wantLevel:  LevelStandard,
			wantSource: SourceDefault,
			wantPhase:  PhaseFull,
		},
		{
			name:       "score drives when others are auto",
			override:   "auto",
			stored:     "auto",
			score:      intPtr(55),
			wantLevel:  LevelBasic,
			wantSource: SourceScore,
			wantPhase:  PhaseGuided,
		},
		{
			name:       "invalid override falls through",
			override:   "superhard",
			stored:     "",
			score:      intPtr(95),
			wantLevel:  LevelAdvanced,
			wantSource: SourceScore,
			wantPhase:  PhaseFull,
		},
		{
			name:       "all absent resolves to standard",
			override:   "",
			stored:     "",
			score:      nil,
			wantLevel:  LevelStandard,
			wantSource: SourceScore,
			wantPhase:  PhaseFull,
		},
		{
			name:       "manual basic starts guided",
			override:   "basic",
			stored:     "auto",
			score:      intPtr(99),
			wantLevel:  LevelBasic,
			wantSource: SourceManual,
			wantPhase:  PhaseGuided,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.override, tt.stored, tt.score)
			if got.Level != tt.wantLevel || got.Source != tt.wantSource || got.Phase != tt.wantPhase {
				t.Errorf("Resolve(%q, %q, %v) = %+v, want level=%q source=%q phase=%d",
					tt.override, tt.stored, tt.score, got, tt.wantLevel, tt.wantSource, tt.wantPhase)
			}
		})
	}
}

func TestResolveManualOverrideIgnoresScore(t *testing.T) {
	for score := 0; score <= 100; score += 10 {
		got := Resolve("standard", "auto", intPtr(score))
		if got.Level != LevelStandard || got.Source != SourceManual {
			t.Fatalf("score %d leaked past manual override: %+v", score, got)
		}
	}
}

func TestCanPromote(t *testing.T) {
	if err := CanPromote(LevelBasic, PhaseGuided); err != nil {
		t.Errorf("basic/guided should be promotable, got %v", err)
	}

	blocked := []struct {
		level string
		phase int
	}{
		{LevelBasic, PhaseFull},
		{LevelStandard, PhaseFull},
		{LevelStandard, PhaseGuided},
		{LevelAdvanced, PhaseFull},
	}
	for _, tt := range blocked {
		if err := CanPromote(tt.level, tt.phase); err == nil {
			t.Errorf("CanPromote(%q, %d) should be rejected", tt.level, tt.phase)
		}
	}
}
