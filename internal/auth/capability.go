package auth

import (
	"encoding/json"
	"fmt"
)

// Resource перечисление ресурсов, доступных интеграционному API
type Resource string

const (
	ResourceAppointments Resource = "appointments"
	ResourceServices     Resource = "services"
	ResourceStores       Resource = "stores"
	ResourceCoupons      Resource = "coupons"
)

// Action перечисление действий над ресурсом
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// validResources and validActions keep parsing exhaustive: an API key row
// with an unknown resource or action is rejected instead of silently ignored.
var validResources = map[Resource]bool{
	ResourceAppointments: true,
	ResourceServices:     true,
	ResourceStores:       true,
	ResourceCoupons:      true,
}

var validActions = map[Action]bool{
	ActionRead:   true,
	ActionCreate: true,
	ActionUpdate: true,
	ActionDelete: true,
}

// Capability одна строка типизированного набора прав ключа
type Capability struct {
	Resource Resource `json:"resource"`
	Actions  []Action `json:"actions"`
}

// CapabilitySet типизированный набор прав API ключа.
// Заменяет открытый словарь permissions: проверка Can исчерпывающая
// и статически верифицируемая.
type CapabilitySet map[Resource]map[Action]bool

// NewCapabilitySet собирает набор из списка строк, валидируя каждую
func NewCapabilitySet(caps []Capability) (CapabilitySet, error) {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		if !validResources[c.Resource] {
			return nil, fmt.Errorf("auth: unknown resource %q", c.Resource)
		}
		if set[c.Resource] == nil {
			set[c.Resource] = make(map[Action]bool, len(c.Actions))
		}
		for _, a := range c.Actions {
			if !validActions[a] {
				return nil, fmt.Errorf("auth: unknown action %q", a)
			}
			set[c.Resource][a] = true
		}
	}
	return set, nil
}

// Can проверяет наличие права на действие над ресурсом
func (s CapabilitySet) Can(r Resource, a Action) bool {
	actions, ok := s[r]
	if !ok {
		return false
	}
	return actions[a]
}

// Rows приводит набор обратно к компактному списку строк для сериализации
func (s CapabilitySet) Rows() []Capability {
	rows := make([]Capability, 0, len(s))
	for _, r := range []Resource{ResourceAppointments, ResourceServices, ResourceStores, ResourceCoupons} {
		actions, ok := s[r]
		if !ok || len(actions) == 0 {
			continue
		}
		row := Capability{Resource: r}
		for _, a := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
			if actions[a] {
				row.Actions = append(row.Actions, a)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// MarshalCapabilities сериализует набор в JSON для хранения
func MarshalCapabilities(s CapabilitySet) ([]byte, error) {
	return json.Marshal(s.Rows())
}

// ParseCapabilities десериализует и валидирует набор из JSON
func ParseCapabilities(data []byte) (CapabilitySet, error) {
	if len(data) == 0 {
		return CapabilitySet{}, nil
	}
	var rows []Capability
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("auth: parse capabilities: %w", err)
	}
	return NewCapabilitySet(rows)
}
