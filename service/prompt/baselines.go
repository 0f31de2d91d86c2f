package prompt

import _ "embed"

// 学科基础提示词作为不透明配置文本随二进制打包

var (
	//go:embed baselines/physics_zh.txt
	physicsZH string

	//go:embed baselines/physics_en.txt
	physicsEN string

	//go:embed baselines/chemistry_zh.txt
	chemistryZH string

	//go:embed baselines/chemistry_en.txt
	chemistryEN string

	//go:embed baselines/physics_competition_zh.txt
	physicsCompetitionZH string

	//go:embed baselines/physics_competition_en.txt
	physicsCompetitionEN string

	//go:embed baselines/chemistry_competition_zh.txt
	chemistryCompetitionZH string

	//go:embed baselines/chemistry_competition_en.txt
	chemistryCompetitionEN string
)

// SubjectBaseline 返回学科基础提示词；深度思考模式使用竞赛级版本
func SubjectBaseline(subject, lang string, deepThink bool) string {
	en := lang == LangEN
	chemistry := subject == "chemistry"

	switch {
	case deepThink && chemistry && en:
		return chemistryCompetitionEN
	case deepThink && chemistry:
		return chemistryCompetitionZH
	case deepThink && en:
		return physicsCompetitionEN
	case deepThink:
		return physicsCompetitionZH
	case chemistry && en:
		return chemistryEN
	case chemistry:
		return chemistryZH
	case en:
		return physicsEN
	default:
		return physicsZH
	}
}
