package client

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

// noteContent is the canonical JSON shape a plain text message is wrapped
// in before signing. The full note schema belongs to the host (spec.md
// §1); this is a minimal, deterministic default good enough for local
// operation when no richer event builder is supplied.
type noteContent struct {
	Content string `json:"content"`
}

// DefaultEventBuilder wraps a message in canonical JSON and derives its
// EventID as the SHA-256 digest of that JSON, giving EventBuilder a
// concrete, deterministic implementation.
type DefaultEventBuilder struct{}

// BuildNote implements EventBuilder.
func (DefaultEventBuilder) BuildNote(message string) (common.Event, error) {
	raw, err := json.Marshal(noteContent{Content: message})
	if err != nil {
		return common.Event{}, fmt.Errorf("client: marshal note: %w", err)
	}
	id := sha256.Sum256(raw)
	return common.NewEvent(common.EventID(id), raw), nil
}
