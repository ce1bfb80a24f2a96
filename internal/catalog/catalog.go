// Package catalog 定义了可用的客户人设（Persona）与投诉场景（Scenario）。
// 所有数据在进程启动时即已确定，运行期间不可修改。
package catalog

import (
	"errors"
	"fmt"
	"roleplay-coach-go/pkg/tts"
)

var (
	// ErrUnknownPersona 表示请求的人设标识不存在。
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrUnknownScenario 表示请求的场景标识不存在。
	ErrUnknownScenario = errors.New("unknown scenario")
)

// PersonaID 是人设的封闭枚举。
type PersonaID string

const (
	PersonaAngry     PersonaID = "Angry"
	PersonaPolite    PersonaID = "Polite"
	PersonaImpatient PersonaID = "Impatient"
	PersonaConfused  PersonaID = "Confused"
	PersonaVIP       PersonaID = "VIP"
)

// ScenarioID 是场景的封闭枚举。
type ScenarioID string

const (
	Scenario5GRollout          ScenarioID = "5g-rollout"
	ScenarioCorporateDiscount  ScenarioID = "corporate-discount"
	ScenarioServiceDowntime    ScenarioID = "service-downtime"
	ScenarioDeviceTradeIn      ScenarioID = "device-tradein"
	ScenarioEnterpriseContract ScenarioID = "enterprise-contract"
)

// Persona 描述一个模拟客户的性格档案。
// Tone 只用于拼装系统提示词，不会序列化给调用方。
type Persona struct {
	ID          PersonaID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Avatar      string    `json:"avatar"`
	Tone        string    `json:"-"`
}

// Scenario 描述一个投诉场景及其脚本化的开场白。
type Scenario struct {
	ID               ScenarioID `json:"-"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	InitialComplaint string     `json:"initialComplaint"`
}

// PersonaIDs 按固定顺序返回所有人设标识。
func PersonaIDs() []PersonaID {
	return []PersonaID{PersonaAngry, PersonaPolite, PersonaImpatient, PersonaConfused, PersonaVIP}
}

// ScenarioIDs 按固定顺序返回所有场景标识。
func ScenarioIDs() []ScenarioID {
	return []ScenarioID{
		Scenario5GRollout,
		ScenarioCorporateDiscount,
		ScenarioServiceDowntime,
		ScenarioDeviceTradeIn,
		ScenarioEnterpriseContract,
	}
}

// Personas 返回 id → Persona 的副本。
func Personas() map[PersonaID]Persona {
	out := make(map[PersonaID]Persona, len(personas))
	for id, p := range personas {
		out[id] = p
	}
	return out
}

// Scenarios 返回 id → Scenario 的副本。
func Scenarios() map[ScenarioID]Scenario {
	out := make(map[ScenarioID]Scenario, len(scenarios))
	for id, s := range scenarios {
		out[id] = s
	}
	return out
}

// LookupPersona 按标识查找人设，未找到时返回 ErrUnknownPersona。
func LookupPersona(id string) (Persona, error) {
	p, ok := personas[PersonaID(id)]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	return p, nil
}

// LookupScenario 按标识查找场景，未找到时返回 ErrUnknownScenario。
func LookupScenario(id string) (Scenario, error) {
	s, ok := scenarios[ScenarioID(id)]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, id)
	}
	return s, nil
}

// VoiceFor 返回人设对应的语音配置；未知人设回退到 Polite 的音色。
func VoiceFor(id string) tts.Voice {
	if v, ok := voices[PersonaID(id)]; ok {
		return v
	}
	return voices[PersonaPolite]
}
