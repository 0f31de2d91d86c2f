package query

import (
	"encoding/json"
	"testing"
	"tutor-agent-backend/model"
	"tutor-agent-backend/service/personalize"
)

func testUser() *model.User {
	score := 55
	return &model.User{
		ID:                  1,
		DefaultExplainLevel: personalize.LevelAuto,
		PhysicsScore:        &score,
		LearningProfile:     json.RawMessage(`{"weak_topics":["受力分析"],"pace":"slow"}`),
	}
}

func TestBuildSnapshotProfileFlag(t *testing.T) {
	user := testUser()

	with := buildSnapshot(user, "physics", "", "", false, true)
	if !with.ProfileUsed || len(with.Profile) == 0 {
		t.Errorf("use_profile=true: profile not folded in, got %+v", with)
	}

	without := buildSnapshot(user, "physics", "", "", false, false)
	if without.ProfileUsed || without.Profile != nil {
		t.Errorf("use_profile=false: profile leaked into snapshot, got %+v", without)
	}

	// 要求用画像但画像为空：不得标记 ProfileUsed
	user.LearningProfile = nil
	empty := buildSnapshot(user, "physics", "", "", false, true)
	if empty.ProfileUsed || empty.Profile != nil {
		t.Errorf("empty profile marked as used: %+v", empty)
	}
}

func TestBuildSnapshotResolvesLevel(t *testing.T) {
	user := testUser()

	auto := buildSnapshot(user, "physics", "", "auto", false, false)
	if auto.Level != personalize.LevelBasic ||
		auto.LevelSource != personalize.SourceScore ||
		auto.Phase != personalize.PhaseGuided {
		t.Errorf("auto override with score 55: got level=%s source=%s phase=%d",
			auto.Level, auto.LevelSource, auto.Phase)
	}

	manual := buildSnapshot(user, "physics", "", "advanced", false, false)
	if manual.Level != personalize.LevelAdvanced ||
		manual.LevelSource != personalize.SourceManual ||
		manual.Phase != personalize.PhaseFull {
		t.Errorf("manual advanced override: got level=%s source=%s phase=%d",
			manual.Level, manual.LevelSource, manual.Phase)
	}
}
