// Package model 包含了应用的数据模型定义。
package model

import "time"

// Turn 代表一次完整的交互：学员发言与模拟客户的回复。记录后不可修改。
type Turn struct {
	LearnerMessage  string    `json:"learnerMessage"`
	CustomerMessage string    `json:"customerMessage"`
	Timestamp       time.Time `json:"timestamp"`
}

// Session 是一次训练对话的有序回合历史。
// 脚本化的开场白不会作为 Turn 记录。
type Session struct {
	ID         string    `json:"sessionId"`
	PersonaID  string    `json:"persona,omitempty"`
	ScenarioID string    `json:"scenario,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Turns      []Turn    `json:"turns"`
}

// LearnerMessages 按提交顺序返回学员发言。
func LearnerMessages(turns []Turn) []string {
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		out = append(out, t.LearnerMessage)
	}
	return out
}
