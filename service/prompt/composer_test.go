package prompt

import (
	"strings"
	"testing"
	"tutor-agent-backend/service/personalize"
)

func intPtr(v int) *int {
	return &v
}

func baseCtx() Context {
	return Context{
		Subject:   "physics",
		Lang:      LangZH,
		Level:     personalize.LevelStandard,
		Phase:     personalize.PhaseFull,
		Score:     intPtr(80),
		PrefLevel: personalize.LevelAuto,
		Profile: personalize.SafeProfile{
			WeakTopics: []string{"受力分析"},
			Pace:       "slow",
		},
	}
}

func TestComposeDeterministic(t *testing.T) {
	baseline := SubjectBaseline("physics", LangZH, false)
	ctx := baseCtx()

	builders := map[string]func(string, Context) string{
		"text":   BuildTextSystemPrompt,
		"vision": BuildVisionSystemPrompt,
	}
	for name, build := range builders {
		first := build(baseline, ctx)
		second := build(baseline, ctx)
		if first != second {
			t.Errorf("%s builder is not deterministic", name)
		}
		if first == "" {
			t.Errorf("%s builder produced empty prompt", name)
		}
	}
}

func TestComposeEmbedsBaselineVerbatim(t *testing.T) {
	baseline := SubjectBaseline("chemistry", LangEN, false)
	ctx := baseCtx()
	ctx.Subject = "chemistry"
	ctx.Lang = LangEN

	got := BuildTextSystemPrompt(baseline, ctx)
	if !strings.Contains(got, baseline) {
		t.Error("composed prompt does not embed the subject baseline verbatim")
	}
}

func TestGuidedPhaseNeverContainsAnswerHeading(t *testing.T) {
	ctx := baseCtx()
	ctx.Level = personalize.LevelBasic
	ctx.Phase = personalize.PhaseGuided

	for _, lang := range []string{LangZH, LangEN} {
		ctx.Lang = lang
		baseline := SubjectBaseline(ctx.Subject, lang, false)

		for name, build := range map[string]func(string, Context) string{
			"text":   BuildTextSystemPrompt,
			"vision": BuildVisionSystemPrompt,
		} {
			got := build(baseline, ctx)
			for _, banned := range []string{"## Answer", "## Final Answer", "## 答案", "\\boxed"} {
				if strings.Contains(got, banned) {
					t.Errorf("%s/%s guided prompt contains %q", name, lang, banned)
				}
			}
			// 引导结构必须在场
			if lang == LangZH && !strings.Contains(got, "## 引导完成") {
				t.Errorf("%s/%s guided prompt missing guided section", name, lang)
			}
			if lang == LangEN && !strings.Contains(got, "## Guided Attempt") {
				t.Errorf("%s/%s guided prompt missing guided section", name, lang)
			}
		}
	}
}

func TestStructureSelectionByLevel(t *testing.T) {
	tests := []struct {
		level   string
		phase   int
		lang    string
		want    []string
		exclude []string
	}{
		{personalize.LevelBasic, personalize.PhaseFull, LangZH,
			[]string{"## 步骤", "## 答案", "## 易错点"}, []string{"## 可选拓展", "## 拓展知识"}},
		{personalize.LevelStandard, personalize.PhaseFull, LangZH,
			[]string{"## 步骤", "## 答案", "## 易错点", "## 可选拓展"}, []string{"## 结论"}},
		{personalize.LevelAdvanced, personalize.PhaseFull, LangZH,
			[]string{"## 步骤", "## 结论", "## 易错点", "## 拓展知识"}, []string{"## 答案"}},
		{personalize.LevelStandard, personalize.PhaseFull, LangEN,
			[]string{"## Steps", "## Final Answer", "## Common Mistakes", "## Optional Extension"}, []string{"## Conclusion"}},
		{personalize.LevelAdvanced, personalize.PhaseFull, LangEN,
			[]string{"## Steps", "## Conclusion", "## Common Pitfalls", "## Extension"}, []string{"## Final Answer"}},
	}

	for _, tt := range tests {
		ctx := baseCtx()
		ctx.Level = tt.level
		ctx.Phase = tt.phase
		ctx.Lang = tt.lang
		got := BuildTextSystemPrompt(SubjectBaseline(ctx.Subject, tt.lang, false), ctx)

		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("level=%s lang=%s: missing %q", tt.level, tt.lang, want)
			}
		}
		for _, banned := range tt.exclude {
			if strings.Contains(got, banned) {
				t.Errorf("level=%s lang=%s: unexpected %q", tt.level, tt.lang, banned)
			}
		}
	}
}

func TestVisionPromptImagePreamble(t *testing.T) {
	ctx := baseCtx()
	ctx.HasImage = true
	ctx.Lang = LangEN

	got := BuildVisionSystemPrompt(SubjectBaseline(ctx.Subject, LangEN, false), ctx)
	if !strings.Contains(got, "Extracted Problem Data") {
		t.Error("vision prompt with image missing extraction preamble")
	}
	if !strings.Contains(got, "OCR") {
		t.Error("vision prompt with image missing conservative-OCR instruction")
	}

	ctx.HasImage = false
	got = BuildVisionSystemPrompt(SubjectBaseline(ctx.Subject, LangEN, false), ctx)
	if strings.Contains(got, "Extracted Problem Data") {
		t.Error("vision prompt without image should not mandate extraction preamble")
	}
}

func TestDeepThinkRestatementNote(t *testing.T) {
	ctx := baseCtx()
	ctx.DeepThink = true
	ctx.Lang = LangEN

	got := BuildTextSystemPrompt(SubjectBaseline(ctx.Subject, LangEN, true), ctx)
	if !strings.Contains(got, "problem restatement") {
		t.Error("deep-think prompt missing restatement instruction")
	}

	ctx.DeepThink = false
	got = BuildTextSystemPrompt(SubjectBaseline(ctx.Subject, LangEN, false), ctx)
	if strings.Contains(got, "problem restatement") {
		t.Error("non-deep-think prompt should not carry restatement instruction")
	}
}

func TestVerifierPromptIgnoresPedagogy(t *testing.T) {
	for _, lang := range []string{LangZH, LangEN} {
		got := BuildVerifierSystemPrompt("physics", lang)
		for _, banned := range []string{"profile", "画像", "level=", "phase=", "phase 1"} {
			if strings.Contains(got, banned) {
				t.Errorf("verifier prompt (%s) leaks pedagogy: %q", lang, banned)
			}
		}
	}

	en := BuildVerifierSystemPrompt("chemistry", LangEN)
	for _, section := range []string{"## Verdict", "## Key Checks", "## If Incorrect: Correction"} {
		if !strings.Contains(en, section) {
			t.Errorf("verifier prompt missing section %q", section)
		}
	}
}

func TestVerificationQueryEmbedsBoth(t *testing.T) {
	got := BuildVerificationQuery("physics", LangZH, "题目内容", "解答内容")
	if !strings.Contains(got, "题目内容") || !strings.Contains(got, "解答内容") {
		t.Error("verification query must embed both question and accumulated answer")
	}
}

func TestSubjectBaselineSelection(t *testing.T) {
	seen := make(map[string]bool)
	for _, subject := range []string{"physics", "chemistry"} {
		for _, lang := range []string{LangZH, LangEN} {
			for _, deep := range []bool{false, true} {
				text := SubjectBaseline(subject, lang, deep)
				if text == "" {
					t.Fatalf("empty baseline for %s/%s/deep=%v", subject, lang, deep)
				}
				if seen[text] {
					t.Fatalf("duplicate baseline for %s/%s/deep=%v", subject, lang, deep)
				}
				seen[text] = true
			}
		}
	}
}
