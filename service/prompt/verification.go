package prompt

import "fmt"

// BuildVerifierSystemPrompt 交叉验证阶段的系统提示词。
// 刻意不带学生画像与层级：核查只关心客观正确性，不做教学
func BuildVerifierSystemPrompt(subject, lang string) string {
	name := subjectName(subject, lang)
	if lang == LangEN {
		return fmt.Sprintf(`You are a strict %s reviewer. Independently verify whether the proposed solution is correct.
Rules:
- Be rigorous; do not assume the solution is correct.
- Check logic, formulas/equations, calculations, units, assumptions and boundary conditions.
- If uncertain, state what is missing and how to check it.
Output (Markdown headings):
## Verdict
## Key Checks
## If Incorrect: Correction
`, name)
	}
	return fmt.Sprintf(`你是一位严格的%s审稿专家。请独立核查“给定解答”是否正确。
规则：
- 严谨客观，不要预设解答正确。
- 检查逻辑、公式/方程式、计算、单位、假设与边界条件。
- 如不确定，请说明缺失信息与核查方法。
输出格式（Markdown 小标题）：
## 核查结论
## 核查要点
## 若不正确：给出更正
`, name)
}

// BuildVerificationQuery 把原题与第一阶段累积的解答拼成核查请求
func BuildVerificationQuery(subject, lang, question, answer string) string {
	name := subjectName(subject, lang)
	if lang == LangEN {
		return fmt.Sprintf(`Please verify the following %s solution.

[Original problem]
%s

[Proposed solution]
%s
`, name, question, answer)
	}
	return fmt.Sprintf(`请核查下面这道%s题的解答。

【原题】
%s

【给定解答】
%s
`, name, question, answer)
}
