package model

import "strings"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn in the conversation transcript.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Slot names, in the fixed priority order the dialogue pursues them.
const (
	FieldProductIdea          = "product_idea"
	FieldImportCountry        = "import_country"
	FieldSalesChannel         = "sales_channel"
	FieldVolumePlan           = "volume_plan"
	FieldTimeline             = "timeline"
	FieldMainRiskConcern      = "main_risk_concern"
	FieldCertificationsNeeded = "certifications_needed"
	FieldExtraNotes           = "extra_notes"
)

// RequiredFields must all be filled before a conversation is ready for analysis.
var RequiredFields = []string{
	FieldProductIdea,
	FieldImportCountry,
	FieldSalesChannel,
	FieldVolumePlan,
}

// OptionalFields are pursued after the required ones and never block readiness.
var OptionalFields = []string{
	FieldTimeline,
	FieldMainRiskConcern,
	FieldCertificationsNeeded,
	FieldExtraNotes,
}

// Canonical sales_channel values.
const (
	ChannelAmazonFBA  = "amazon_fba"
	ChannelTikTokShop = "tiktok_shop"
	ChannelShopify    = "shopify"
	ChannelWholesale  = "wholesale"
	ChannelOther      = "other"
)

// Canonical main_risk_concern values.
const (
	ConcernDuty       = "duty"
	ConcernQuality    = "quality"
	ConcernDelay      = "delay"
	ConcernCompliance = "compliance"
	ConcernOther      = "other"
)

var salesChannelVocab = map[string]struct{}{
	ChannelAmazonFBA: {}, ChannelTikTokShop: {}, ChannelShopify: {}, ChannelWholesale: {}, ChannelOther: {},
}

var riskConcernVocab = map[string]struct{}{
	ConcernDuty: {}, ConcernQuality: {}, ConcernDelay: {}, ConcernCompliance: {}, ConcernOther: {},
}

// ValidSalesChannel reports whether v is a member of the sales_channel vocabulary.
func ValidSalesChannel(v string) bool {
	_, ok := salesChannelVocab[v]
	return ok
}

// ValidRiskConcern reports whether v is a member of the main_risk_concern vocabulary.
func ValidRiskConcern(v string) bool {
	_, ok := riskConcernVocab[v]
	return ok
}

// IsEnumField reports whether the named slot stores a canonical enum value.
func IsEnumField(name string) bool {
	return name == FieldSalesChannel || name == FieldMainRiskConcern
}

// ConversationState is the session-scoped slot-filling state. It is owned
// exclusively by the dialogue manager for the duration of a session; enum
// slots hold either "" (unset) or a canonical vocabulary member, never an
// arbitrary string.
type ConversationState struct {
	Messages             []ChatMessage `json:"messages"`
	ProductIdea          string        `json:"product_idea,omitempty"`
	ImportCountry        string        `json:"import_country,omitempty"`
	SalesChannel         string        `json:"sales_channel,omitempty"`
	VolumePlan           string        `json:"volume_plan,omitempty"`
	Timeline             string        `json:"timeline,omitempty"`
	MainRiskConcern      string        `json:"main_risk_concern,omitempty"`
	CertificationsNeeded string        `json:"certifications_needed,omitempty"`
	ExtraNotes           string        `json:"extra_notes,omitempty"`
	NotesConfirmed       bool          `json:"notes_confirmed,omitempty"`
	ReadyForAnalysis     bool          `json:"ready_for_analysis"`
	NextFocusField       string        `json:"next_focus_field,omitempty"`
}

// StateUpdates mirrors the provider's state_updates object. Pointer fields
// distinguish "absent" (nil, keep the current value) from "explicitly set".
type StateUpdates struct {
	ProductIdea          *string `json:"product_idea,omitempty"`
	ImportCountry        *string `json:"import_country,omitempty"`
	SalesChannel         *string `json:"sales_channel,omitempty"`
	VolumePlan           *string `json:"volume_plan,omitempty"`
	Timeline             *string `json:"timeline,omitempty"`
	MainRiskConcern      *string `json:"main_risk_concern,omitempty"`
	CertificationsNeeded *string `json:"certifications_needed,omitempty"`
	ExtraNotes           *string `json:"extra_notes,omitempty"`
}

// Field returns a pointer to the update for the named slot, or nil.
func (u *StateUpdates) Field(name string) *string {
	switch name {
	case FieldProductIdea:
		return u.ProductIdea
	case FieldImportCountry:
		return u.ImportCountry
	case FieldSalesChannel:
		return u.SalesChannel
	case FieldVolumePlan:
		return u.VolumePlan
	case FieldTimeline:
		return u.Timeline
	case FieldMainRiskConcern:
		return u.MainRiskConcern
	case FieldCertificationsNeeded:
		return u.CertificationsNeeded
	case FieldExtraNotes:
		return u.ExtraNotes
	}
	return nil
}

// SetField records an update for the named slot. Unknown names are ignored.
func (u *StateUpdates) SetField(name, value string) {
	v := value
	switch name {
	case FieldProductIdea:
		u.ProductIdea = &v
	case FieldImportCountry:
		u.ImportCountry = &v
	case FieldSalesChannel:
		u.SalesChannel = &v
	case FieldVolumePlan:
		u.VolumePlan = &v
	case FieldTimeline:
		u.Timeline = &v
	case FieldMainRiskConcern:
		u.MainRiskConcern = &v
	case FieldCertificationsNeeded:
		u.CertificationsNeeded = &v
	case FieldExtraNotes:
		u.ExtraNotes = &v
	}
}

// Slot returns the current value of the named slot ("" when unset).
func (s *ConversationState) Slot(name string) string {
	switch name {
	case FieldProductIdea:
		return s.ProductIdea
	case FieldImportCountry:
		return s.ImportCountry
	case FieldSalesChannel:
		return s.SalesChannel
	case FieldVolumePlan:
		return s.VolumePlan
	case FieldTimeline:
		return s.Timeline
	case FieldMainRiskConcern:
		return s.MainRiskConcern
	case FieldCertificationsNeeded:
		return s.CertificationsNeeded
	case FieldExtraNotes:
		return s.ExtraNotes
	}
	return ""
}

func (s *ConversationState) setSlot(name, value string) {
	switch name {
	case FieldProductIdea:
		s.ProductIdea = value
	case FieldImportCountry:
		s.ImportCountry = value
	case FieldSalesChannel:
		s.SalesChannel = value
	case FieldVolumePlan:
		s.VolumePlan = value
	case FieldTimeline:
		s.Timeline = value
	case FieldMainRiskConcern:
		s.MainRiskConcern = value
	case FieldCertificationsNeeded:
		s.CertificationsNeeded = value
	case FieldExtraNotes:
		s.ExtraNotes = value
	}
}

// AllFields lists every slot in priority order.
func AllFields() []string {
	out := make([]string, 0, len(RequiredFields)+len(OptionalFields))
	out = append(out, RequiredFields...)
	out = append(out, OptionalFields...)
	return out
}

// Apply merges updates into the state. Merging is additive/overwriting per
// field: an absent (nil) or blank update leaves the current value untouched,
// so a filled slot is never cleared by a sparse or garbled update.
func (s *ConversationState) Apply(updates StateUpdates) {
	for _, name := range AllFields() {
		p := updates.Field(name)
		if p == nil {
			continue
		}
		v := strings.TrimSpace(*p)
		if v == "" {
			continue
		}
		s.setSlot(name, v)
	}
}

// AllRequiredSet reports whether every required slot is filled.
func (s *ConversationState) AllRequiredSet() bool {
	for _, name := range RequiredFields {
		if s.Slot(name) == "" {
			return false
		}
	}
	return true
}

// RecomputeReadiness derives ready_for_analysis from the required slots.
// Readiness is monotonic: once true it stays true, because Apply never
// clears a filled slot.
func (s *ConversationState) RecomputeReadiness() {
	if s.AllRequiredSet() {
		s.ReadyForAnalysis = true
	}
}

// AppendUser appends a user message to the transcript.
func (s *ConversationState) AppendUser(content string) {
	s.Messages = append(s.Messages, ChatMessage{Role: RoleUser, Content: content})
}

// AppendAssistant appends an assistant message to the transcript.
func (s *ConversationState) AppendAssistant(content string) {
	s.Messages = append(s.Messages, ChatMessage{Role: RoleAssistant, Content: content})
}

// Clone returns a deep copy so a failed or abandoned turn cannot leave the
// caller's state partially merged.
func (s *ConversationState) Clone() ConversationState {
	out := *s
	out.Messages = make([]ChatMessage, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}
