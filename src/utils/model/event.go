package model

import (
	"encoding/json"
	"time"
)

// StatusEvent is published whenever the effective status of a job or an
// application changes, so presentation layers can refresh without polling
type StatusEvent struct {
	Kind          string    `json:"kind"`
	JobId         string    `json:"job_id"`
	ApplicationId string    `json:"application_id,omitempty"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	EmittedAt     time.Time `json:"emitted_at"`
}

// Implements encoding.BinaryMarshaler for the publisher
func (self StatusEvent) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}
