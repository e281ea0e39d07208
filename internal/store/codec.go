package store

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/nah-machine/internal/model"
)

// checkpointVersion is the envelope version written with every checkpoint.
const checkpointVersion = 0

type envelope struct {
	State   persisted `json:"state"`
	Version int       `json:"version"`
}

type persisted struct {
	CurrentReason *string        `json:"currentReason"`
	IsLoading     bool           `json:"isLoading"`
	Liked         []model.Reason `json:"likedReasons"`
	Saved         []model.Reason `json:"savedReasons"`
	Recent        []model.Reason `json:"recentReasons"`
}

// Marshal encodes a state as a checkpoint blob.
func Marshal(st model.State) ([]byte, error) {
	p := persisted{
		IsLoading: st.IsLoading,
		Liked:     nonNil(st.Liked),
		Saved:     nonNil(st.Saved),
		Recent:    nonNil(st.Recent),
	}
	if st.CurrentReason != "" {
		cur := st.CurrentReason
		p.CurrentReason = &cur
	}
	return json.Marshal(envelope{State: p, Version: checkpointVersion})
}

// Unmarshal decodes a checkpoint blob. Fields missing from the blob are left empty.
func Unmarshal(blob []byte) (model.State, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return model.State{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	st := model.State{
		IsLoading: env.State.IsLoading,
		Liked:     nonNil(env.State.Liked),
		Saved:     nonNil(env.State.Saved),
		Recent:    nonNil(env.State.Recent),
	}
	if env.State.CurrentReason != nil {
		st.CurrentReason = *env.State.CurrentReason
	}
	return st, nil
}

func nonNil(list []model.Reason) []model.Reason {
	if list == nil {
		return []model.Reason{}
	}
	return list
}
