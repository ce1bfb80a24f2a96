// Package scoring 根据学员在会话中的发言计算评分与改进建议。
// 评分是纯词法的：对小写文本做关键字匹配，不涉及语义理解。
package scoring

import (
	"math"
	"roleplay-coach-go/internal/model"
	"strings"
	"unicode/utf8"
)

// 评分维度名称，顺序即报告中的顺序。
const (
	MetricEmpathy         = "Empathy"
	MetricProfessionalism = "Professionalism"
	MetricResolution      = "Resolution Strategy"
	MetricRetention       = "Customer Retention Impact"
)

const (
	baselineScore = 50
	maxScore      = 100
	// 低于该阈值的维度会生成一条建议
	recommendThreshold = 75
	maxRecommendations = 3
)

// Weights 是综合得分的加权系数。
var Weights = struct {
	Empathy, Professionalism, Resolution, Retention float64
}{0.25, 0.25, 0.30, 0.20}

// MaintainExcellence 是所有维度达标时给出的唯一建议。
var MaintainExcellence = model.Recommendation{
	Title:  "Maintain Excellence",
	Action: "Continue your strong performance and apply these skills consistently in all interactions",
}

var categoryRecommendations = map[string]model.Recommendation{
	MetricEmpathy: {
		Title:  "Enhance Empathy",
		Action: `Use phrases like "I understand your frustration" to show genuine concern for customer feelings`,
	},
	MetricProfessionalism: {
		Title:  "Strengthen Professional Tone",
		Action: "Always use courteous language and provide clear, structured responses with specific timelines",
	},
	MetricResolution: {
		Title:  "Improve Solution Delivery",
		Action: "Offer concrete next steps and specific actions to resolve customer issues effectively",
	},
	MetricRetention: {
		Title:  "Build Customer Trust",
		Action: "Follow through on commitments and reassure customers with clear action plans",
	},
}

type categoryScores struct {
	empathy, professionalism, resolution, retention int
}

// Score 计算一组回合的评分报告。函数无副作用，相同输入总是得到相同结果。
func Score(turns []model.Turn) model.ScoreReport {
	if len(turns) == 0 {
		return baselineReport()
	}

	s := categoryScores{baselineScore, baselineScore, baselineScore, baselineScore}
	for _, msg := range model.LearnerMessages(turns) {
		s.add(msg)
	}
	s.empathy = min(maxScore, s.empathy)
	s.professionalism = min(maxScore, s.professionalism)
	s.resolution = min(maxScore, s.resolution)
	s.retention = min(maxScore, s.retention)

	metrics := []model.Metric{
		{Name: MetricEmpathy, Score: s.empathy},
		{Name: MetricProfessionalism, Score: s.professionalism},
		{Name: MetricResolution, Score: s.resolution},
		{Name: MetricRetention, Score: s.retention},
	}

	return model.ScoreReport{
		OverallScore:    Overall(s.empathy, s.professionalism, s.resolution, s.retention),
		Metrics:         metrics,
		Recommendations: recommend(metrics),
	}
}

// Overall 按权重计算四舍五入后的综合得分。
func Overall(empathy, professionalism, resolution, retention int) int {
	raw := float64(empathy)*Weights.Empathy +
		float64(professionalism)*Weights.Professionalism +
		float64(resolution)*Weights.Resolution +
		float64(retention)*Weights.Retention
	return int(math.Round(raw))
}

// add 对单条学员发言做关键字匹配。同一条发言可以同时命中多个规则与多个维度。
func (s *categoryScores) add(msg string) {
	text := strings.ToLower(msg)
	length := utf8.RuneCountInString(msg)

	if containsAny(text, "understand", "sorry", "apologize") {
		s.empathy += 8
	}
	if containsAny(text, "feel", "frustrat") {
		s.empathy += 6
	}

	if containsAny(text, "please", "thank") {
		s.professionalism += 6
	}
	if length > 40 {
		s.professionalism += 4
	}
	if !strings.Contains(text, "?") && length > 20 {
		s.professionalism += 5
	}

	if containsAny(text, "will", "can help", "resolve") {
		s.resolution += 8
	}
	if containsAny(text, "fix", "solution") {
		s.resolution += 7
	}

	if containsAny(text, "assist", "support") {
		s.retention += 6
	}
	if containsAny(text, "follow up", "contact") {
		s.retention += 7
	}
}

// recommend 为每个低于阈值的维度生成建议；若全部达标则只给出 MaintainExcellence。
// 最低维度低于阈值且建议不足 3 条时再追加一条针对性建议，即使该维度已被提示过。
func recommend(metrics []model.Metric) []model.Recommendation {
	var recs []model.Recommendation
	for _, m := range metrics {
		if m.Score < recommendThreshold {
			recs = append(recs, categoryRecommendations[m.Name])
		}
	}
	if len(recs) == 0 {
		recs = append(recs, MaintainExcellence)
	}

	// 同分时取靠后的维度
	lowest := metrics[0]
	for _, m := range metrics[1:] {
		if lowest.Score >= m.Score {
			lowest = m
		}
	}
	if lowest.Score < recommendThreshold && len(recs) < maxRecommendations {
		recs = append(recs, model.Recommendation{
			Title:  "Focus on " + lowest.Name,
			Action: "Practice specific techniques to improve your " + strings.ToLower(lowest.Name) + " in customer interactions",
		})
	}
	return recs
}

// baselineReport 是没有任何学员发言时的报告。
func baselineReport() model.ScoreReport {
	return model.ScoreReport{
		OverallScore: Overall(baselineScore, baselineScore, baselineScore, baselineScore),
		Metrics: []model.Metric{
			{Name: MetricEmpathy, Score: baselineScore},
			{Name: MetricProfessionalism, Score: baselineScore},
			{Name: MetricResolution, Score: baselineScore},
			{Name: MetricRetention, Score: baselineScore},
		},
		Recommendations: []model.Recommendation{MaintainExcellence},
	}
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
