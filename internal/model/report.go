package model

// Metric 是单个评分维度及其得分。
type Metric struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Recommendation 是一条改进建议。
type Recommendation struct {
	Title  string `json:"title"`
	Action string `json:"action"`
}

// ScoreReport 是会话结束时计算出的评估结果，只返回一次，不做存储。
type ScoreReport struct {
	OverallScore    int              `json:"overallScore"`
	Metrics         []Metric         `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
}

// MetricScore 按名称返回维度得分。
func (r ScoreReport) MetricScore(name string) (int, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m.Score, true
		}
	}
	return 0, false
}

// TurnEvaluation 是每轮回复附带的评估占位对象，真实评估在会话结束时生成。
type TurnEvaluation struct {
	Empathy            int    `json:"empathy"`
	Professionalism    int    `json:"professionalism"`
	ResolutionStrategy int    `json:"resolutionStrategy"`
	CustomerRetention  int    `json:"customerRetention"`
	Feedback           string `json:"feedback"`
	Strengths          string `json:"strengths"`
	Improvements       string `json:"improvements"`
}
