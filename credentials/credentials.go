package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/vault"
)

// Integration names a third-party provider a user can hold a key for.
type Integration string

const (
	IntegrationForms Integration = "forms" // Survey forms provider
	IntegrationLLM   Integration = "llm"   // Form generation provider
)

// Integrations lists every supported integration in display order.
var Integrations = []Integration{IntegrationForms, IntegrationLLM}

func (i Integration) Valid() bool {
	return i == IntegrationForms || i == IntegrationLLM
}

func ParseIntegration(s string) (Integration, error) {
	i := Integration(s)
	if !i.Valid() {
		return "", fmt.Errorf("%w: unknown integration %q", apperrors.ErrInvalidRequest, s)
	}
	return i, nil
}

// Record holds one user's encrypted keys, at most one per integration.
type Record struct {
	UserID    string                                `json:"user_id"`
	Secrets   map[Integration]vault.EncryptedSecret `json:"secrets"`
	UpdatedAt time.Time                             `json:"updated_at"`
}

// Clone copies the record and its secrets map.
func (r *Record) Clone() *Record {
	c := &Record{UserID: r.UserID, UpdatedAt: r.UpdatedAt, Secrets: make(map[Integration]vault.EncryptedSecret, len(r.Secrets))}
	for k, v := range r.Secrets {
		c.Secrets[k] = v
	}
	return c
}

type UpdateKind int

const (
	Unchanged UpdateKind = iota
	Set
	Cleared
)

func (k UpdateKind) String() string {
	switch k {
	case Set:
		return "set"
	case Cleared:
		return "cleared"
	default:
		return "unchanged"
	}
}

// Update is the change requested for one integration key. The zero value is
// Unchanged, which is what an absent JSON field decodes to.
type Update struct {
	Kind  UpdateKind
	Value string
}

func SetTo(value string) Update {
	return Update{Kind: Set, Value: value}
}

func Clear() Update {
	return Update{Kind: Cleared}
}

// UnmarshalJSON maps null and "" to Cleared and any other string to Set.
func (u *Update) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*u = Clear()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: key must be a string or null", apperrors.ErrInvalidRequest)
	}
	if s == "" {
		*u = Clear()
		return nil
	}
	*u = SetTo(s)
	return nil
}

// KeysRequest is the body of an API key settings update.
type KeysRequest struct {
	FormsAPIKey Update `json:"formsApiKey"`
	LLMAPIKey   Update `json:"llmApiKey"`
}

func (r KeysRequest) Updates() map[Integration]Update {
	return map[Integration]Update{
		IntegrationForms: r.FormsAPIKey,
		IntegrationLLM:   r.LLMAPIKey,
	}
}

// Source says where a resolved key came from.
type Source string

const (
	SourceUser   Source = "user"
	SourceServer Source = "server"
)
