package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"tutor-agent-backend/service/personalize"
)

const (
	LangZH = "zh-CN"
	LangEN = "en-US"
)

// Context 组装系统提示词所需的全部输入。纯值类型：相同输入必须得到逐字节相同的输出
type Context struct {
	Subject   string
	Lang      string
	Level     string
	Phase     int
	Score     *int
	PrefLevel string
	Profile   personalize.SafeProfile
	DeepThink bool
	HasImage  bool
}

func subjectName(subject, lang string) string {
	if lang == LangEN {
		if subject == "chemistry" {
			return "Chemistry"
		}
		return "Physics"
	}
	if subject == "chemistry" {
		return "化学"
	}
	return "物理"
}

func scoreText(score *int, lang string) string {
	if score == nil {
		if lang == LangEN {
			return "unknown"
		}
		return "未知"
	}
	return strconv.Itoa(*score)
}

// profileBlock 画像的结构化渲染；SafeProfile 字段顺序固定，序列化结果确定
func profileBlock(profile personalize.SafeProfile) string {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// structureBlock 返回与 (level, phase) 匹配的唯一输出结构约定。
// 只嵌入命中的结构：basic 引导阶段的提示词里不允许出现任何答案小标题
func structureBlock(level string, phase int, lang string) string {
	en := lang == LangEN
	switch {
	case level == personalize.LevelBasic && phase == personalize.PhaseGuided:
		if en {
			return "## Core Concepts\n## Guided Attempt\n## Closing\n" +
				"Hard rule: do NOT reveal the final answer, final value or final option anywhere. " +
				"You may describe how the student can check their own result, but never disclose it."
		}
		return "## 知识点讲解\n## 引导完成\n## 结束语\n" +
			"重要：禁止输出最终答案/最终数值/最终选项；可以给自检方法但不能泄露结果。"
	case level == personalize.LevelBasic:
		if en {
			return "## Steps\n## Final Answer\n## Common Mistakes"
		}
		return "## 步骤\n## 答案\n## 易错点"
	case level == personalize.LevelAdvanced:
		if en {
			return "## Steps\n## Conclusion\n## Common Pitfalls\n## Extension"
		}
		return "## 步骤\n## 结论\n## 易错点\n## 拓展知识"
	default:
		if en {
			return "## Steps\n## Final Answer\n## Common Mistakes\n## Optional Extension"
		}
		return "## 步骤\n## 答案\n## 易错点\n## 可选拓展"
	}
}

func deepThinkNote(ctx Context) string {
	if !ctx.DeepThink {
		return ""
	}
	if ctx.Lang == LangEN {
		return "\n[Important] Your solution will be independently checked by another model that sees neither " +
			"the image nor your reasoning. Begin the answer with a complete problem restatement and the given conditions."
	}
	return "\n【重要】你的解答将由另一个看不到图片和你思考过程的模型独立核查；" +
		"请在答案开头完整复述题目并整理已知条件。"
}

// BuildTextSystemPrompt 文本推理模型（DeepSeek 家族）的系统提示词
func BuildTextSystemPrompt(baseline string, ctx Context) string {
	if ctx.Lang == LangEN {
		return buildTextPromptEN(baseline, ctx)
	}
	return buildTextPromptZH(baseline, ctx)
}

func buildTextPromptZH(baseline string, ctx Context) string {
	return fmt.Sprintf(`你是一位严谨且擅长因材施教的%s老师，目标是“让学生学会”，而不是只给结果。

【学科基础要求】（用于保证专业性与准确性）
%s

【学生信息（仅用于教学方式，不得复述隐私）】
- 自评分数：%s
- 讲解层级：%s（学生手动选择：%s）
- 当前生效：level=%s，phase=%d
- 学习画像（结构化摘要，禁止引用任何日记原文、禁止猜测隐私）：
%s%s

【总规则】
1) 必须严格遵守下方输出结构。
2) 公式用 LaTeX；步骤编号清晰；单位/量纲要检查。
3) 只能使用画像摘要调整讲解风格，不得提及其来源。
4) 若题干信息不足：先列“缺失信息清单”，并给出最多3个澄清问题。

【输出结构（Markdown 小标题，必须严格匹配）】
%s

【任务】
请解答学生的问题。只输出结构化内容，不要免责声明或无关内容。
`,
		subjectName(ctx.Subject, ctx.Lang),
		baseline,
		scoreText(ctx.Score, ctx.Lang),
		ctx.Level,
		ctx.PrefLevel,
		ctx.Level,
		ctx.Phase,
		profileBlock(ctx.Profile),
		deepThinkNote(ctx),
		structureBlock(ctx.Level, ctx.Phase, ctx.Lang),
	)
}

func buildTextPromptEN(baseline string, ctx Context) string {
	return fmt.Sprintf(`You are a rigorous %s tutor who adapts explanations to the student's level. The goal is teaching, not just giving results.

[Subject baseline requirements]
%s

[Student context (use only to adapt teaching; never quote private diary text)]
- Self-reported score: %s
- Explanation level: %s (manual preference: %s)
- Effective: level=%s, phase=%d
- Learning profile (structured summary; do NOT infer private details):
%s%s

[Global rules]
1) Follow the required output structure exactly.
2) Use LaTeX for formulas; numbered steps; check units and dimensions.
3) Use the profile summary only to adjust style; never mention where it came from.
4) If information is missing, list "Missing info" and ask up to 3 clarifying questions.

[Output structure (Markdown headings, match exactly)]
%s

[Task]
Solve the student's problem. Output only the structured sections.
`,
		subjectName(ctx.Subject, ctx.Lang),
		baseline,
		scoreText(ctx.Score, ctx.Lang),
		ctx.Level,
		ctx.PrefLevel,
		ctx.Level,
		ctx.Phase,
		profileBlock(ctx.Profile),
		deepThinkNote(ctx),
		structureBlock(ctx.Level, ctx.Phase, ctx.Lang),
	)
}

// BuildVisionSystemPrompt 视觉模型（Doubao 家族）的系统提示词。
// 带图片时强制先输出“题目信息提取”，保证看不到图的核查方也能复核
func BuildVisionSystemPrompt(baseline string, ctx Context) string {
	if ctx.Lang == LangEN {
		return buildVisionPromptEN(baseline, ctx)
	}
	return buildVisionPromptZH(baseline, ctx)
}

func buildVisionPromptZH(baseline string, ctx Context) string {
	extraction := ""
	if ctx.HasImage {
		extraction = `【读图规则（必须做）】
1) 先输出“## 题目信息提取”：列出已知量、求解目标、关键条件与图中标注。
2) 若关键信息不清晰（数值/单位/图注/方向），在“缺失信息”里指出并问最多3个澄清问题。
3) 对可能 OCR 误读的数字/符号要保守处理，并在步骤里注明所做假设。

`
	}
	return fmt.Sprintf(`你是一位严谨的%s老师，擅长从题目图片中提取信息并因材施教。

【学科基础要求】（用于保证专业性与准确性）
%s

【学生信息（仅用于教学方式，不得复述隐私）】
- 自评分数：%s
- 讲解层级：%s（学生手动选择：%s）
- 当前生效：level=%s，phase=%d
- 学习画像（结构化摘要）：
%s%s

%s【输出结构（Markdown 小标题，必须严格匹配）】
%s
`,
		subjectName(ctx.Subject, ctx.Lang),
		baseline,
		scoreText(ctx.Score, ctx.Lang),
		ctx.Level,
		ctx.PrefLevel,
		ctx.Level,
		ctx.Phase,
		profileBlock(ctx.Profile),
		deepThinkNote(ctx),
		extraction,
		structureBlock(ctx.Level, ctx.Phase, ctx.Lang),
	)
}

func buildVisionPromptEN(baseline string, ctx Context) string {
	extraction := ""
	if ctx.HasImage {
		extraction = `[Image-reading rules (mandatory)]
1) Start with "## Extracted Problem Data": list givens, target, and constraints/labels from the image.
2) If key information is unclear (values/units/labels/directions), state "Missing/Unclear" and ask up to 3 questions.
3) Be conservative about possible OCR misreads; state every assumption explicitly in the steps.

`
	}
	return fmt.Sprintf(`You are a rigorous %s tutor who can extract problem statements from an image and adapt to the student's level.

[Subject baseline requirements]
%s

[Student context (use only to adapt teaching; never quote private diary text)]
- Self-reported score: %s
- Explanation level: %s (manual preference: %s)
- Effective: level=%s, phase=%d
- Learning profile (structured summary):
%s%s

%s[Output structure (Markdown headings, match exactly)]
%s
`,
		subjectName(ctx.Subject, ctx.Lang),
		baseline,
		scoreText(ctx.Score, ctx.Lang),
		ctx.Level,
		ctx.PrefLevel,
		ctx.Level,
		ctx.Phase,
		profileBlock(ctx.Profile),
		deepThinkNote(ctx),
		extraction,
		structureBlock(ctx.Level, ctx.Phase, ctx.Lang),
	)
}
