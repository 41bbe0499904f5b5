// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline contains the append-only conversation log and its entries.
package timeline

import "time"

// =============================================================================
// ORIGIN TYPE
// =============================================================================

// Origin represents who produced a timeline entry.
type Origin string

const (
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	return string(o)
}

// DisplayName returns a human-readable name for the origin.
func (o Origin) DisplayName() string {
	switch o {
	case OriginUser:
		return "You"
	case OriginAssistant:
		return "Assistant"
	default:
		return string(o)
	}
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind categorizes the payload carried by a timeline entry.
type Kind string

const (
	// KindText is a plain conversational text entry.
	KindText Kind = "text"

	// KindImage is a user-submitted image, stored by reference.
	KindImage Kind = "image"

	// KindClassification is a local model classification result.
	KindClassification Kind = "classification-result"

	// KindNotice is a system status or degradation notice.
	KindNotice Kind = "system-notice"
)

// =============================================================================
// CLASSIFICATION RESULT
// =============================================================================

// Classification is the outcome of one local inference pass over an image.
// It is consumed once to build an Entry and has no lifecycle of its own.
type Classification struct {
	// Label is the human-readable class name (or a synthesized "class_<n>").
	Label string `json:"label"`

	// Confidence is the model score for Label, in [0, 1].
	// Reported as-is: thresholding is a presentation-layer policy.
	Confidence float64 `json:"confidence"`

	// ImageRef identifies the source image the result was produced from.
	ImageRef string `json:"image_ref,omitempty"`
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is one immutable record in the conversation timeline.
// Entries are created through Store.Append, which assigns the identity
// fields; they are never edited or removed afterwards.
type Entry struct {
	// Identity, assigned at append time.
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Provenance and payload discriminator.
	Origin Origin `json:"origin"`
	Kind   Kind   `json:"kind"`

	// Payload. Exactly one of these carries the content, selected by Kind.
	Text     string         `json:"text,omitempty"`
	ImageRef string         `json:"image_ref,omitempty"`
	Result   Classification `json:"result,omitzero"`
}

// Draft is the caller-supplied portion of an entry, before the store
// assigns its identity. Build drafts with the constructors below.
type Draft struct {
	Origin   Origin
	Kind     Kind
	Text     string
	ImageRef string
	Result   Classification
}

// =============================================================================
// DRAFT CONSTRUCTORS
// =============================================================================

// UserText creates a draft for a user-typed message.
func UserText(text string) Draft {
	return Draft{Origin: OriginUser, Kind: KindText, Text: text}
}

// UserImage creates a draft for a user-submitted image reference.
func UserImage(ref string) Draft {
	return Draft{Origin: OriginUser, Kind: KindImage, ImageRef: ref}
}

// AssistantText creates a draft for an assistant reply.
func AssistantText(text string) Draft {
	return Draft{Origin: OriginAssistant, Kind: KindText, Text: text}
}

// ClassificationResult creates a draft carrying a local inference result.
func ClassificationResult(result Classification) Draft {
	return Draft{Origin: OriginAssistant, Kind: KindClassification, Result: result}
}

// Notice creates a draft for an assistant-side system notice.
func Notice(text string) Draft {
	return Draft{Origin: OriginAssistant, Kind: KindNotice, Text: text}
}

// =============================================================================
// ENTRY METHODS
// =============================================================================

// Preview returns a truncated preview of the entry content.
// Uses rune-based truncation to handle Unicode correctly.
func (e Entry) Preview(maxLen int) string {
	content := e.DisplayContent()
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// DisplayContent returns the text the presentation layer should render
// for this entry, independent of payload kind.
func (e Entry) DisplayContent() string {
	switch e.Kind {
	case KindImage:
		return "[image] " + e.ImageRef
	case KindClassification:
		return e.Result.Label
	default:
		return e.Text
	}
}

// IsEmpty returns true if the entry carries no content.
func (e Entry) IsEmpty() bool {
	return e.Text == "" && e.ImageRef == "" && e.Result.Label == ""
}
