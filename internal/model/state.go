package model

import "fmt"

// State 交易生命周期状态，每次加载时重新计算，不持久化
type State int

const (
	StatePending State = iota
	StateConfirmed
	StateCanceled
	StateExecuted
)

var stateNames = map[State]string{
	StatePending:   "PENDING",
	StateConfirmed: "CONFIRMED",
	StateCanceled:  "CANCELED",
	StateExecuted:  "EXECUTED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText 使 JSON 输出状态名而不是数字
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 只接受已知状态名
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown transaction state %q", string(text))
}
