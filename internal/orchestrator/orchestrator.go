// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator sequences user actions across the chat, inference
// and geolocation gateways against the shared conversation timeline.
//
// Every action follows the same discipline: append the user's input first,
// hold exactly one busy indicator for the duration, convert every gateway
// failure into a rendered notice or a silent no-op, and release the
// indicator on every exit path. Nothing in this package is fatal to the
// session.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/jeranaias/senseai-tui/internal/geo"
	"github.com/jeranaias/senseai-tui/internal/indicator"
	"github.com/jeranaias/senseai-tui/internal/inference"
	"github.com/jeranaias/senseai-tui/internal/telemetry"
	"github.com/jeranaias/senseai-tui/internal/timeline"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrEmptyMessage rejects blank input before any gateway call. It never
// reaches the timeline.
var ErrEmptyMessage = errors.New("message is empty")

// =============================================================================
// GATEWAY INTERFACES
// =============================================================================

// ChatSender is the remote chat exchange.
type ChatSender interface {
	Send(ctx context.Context, message, lang string) (string, error)
}

// Classifier is the local image classification capability.
type Classifier interface {
	Classify(ctx context.Context, imageData []byte, imageRef string) (inference.Result, error)
}

// Locator is the permission-gated position query.
type Locator interface {
	Locate(ctx context.Context) (geo.Coordinates, error)
}

// ReportSender delivers best-effort classification reports.
type ReportSender interface {
	Send(ctx context.Context, report telemetry.Report)
}

// =============================================================================
// DEFAULT NOTICES
// =============================================================================

// Fixed user-facing notices. The remote service owns real reply content;
// these only cover degraded paths.
const (
	DefaultFallbackReply = "Sorry, I'm having trouble reaching the assistant right now. Please try again in a moment."
	DefaultModelNotice   = "Image analysis isn't available right now, so I can't classify this photo."
	DefaultDecodeNotice  = "I couldn't read that image. Please try a different photo."
	DefaultLocatingText  = "Looking for hospitals near you..."
	DefaultOpenFailText  = "I couldn't open your browser. You can search here: "
)

// reportLabelUnavailable is sent in place of a result when classification
// fails; the collaborator ignores it or not, failure is swallowed either way.
const reportLabelUnavailable = "model_unavailable"

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds orchestrator settings.
type Config struct {
	// ChatTimeout bounds one chat exchange.
	ChatTimeout time.Duration

	// ClassifyTimeout bounds one classification pass (including a lazy
	// first load).
	ClassifyTimeout time.Duration

	// DefaultLang is the language tag attached to chat requests until
	// SetLang changes it.
	DefaultLang string

	// Notice overrides. Empty fields keep the defaults.
	FallbackReply string
	ModelNotice   string
	DecodeNotice  string
	LocatingText  string
}

func (c *Config) fillDefaults() {
	if c.ChatTimeout <= 0 {
		c.ChatTimeout = 30 * time.Second
	}
	if c.ClassifyTimeout <= 0 {
		c.ClassifyTimeout = 15 * time.Second
	}
	if c.DefaultLang == "" {
		c.DefaultLang = "en"
	}
	if c.FallbackReply == "" {
		c.FallbackReply = DefaultFallbackReply
	}
	if c.ModelNotice == "" {
		c.ModelNotice = DefaultModelNotice
	}
	if c.DecodeNotice == "" {
		c.DecodeNotice = DefaultDecodeNotice
	}
	if c.LocatingText == "" {
		c.LocatingText = DefaultLocatingText
	}
}

// =============================================================================
// PENDING REQUESTS
// =============================================================================

// pendingRequest is the in-flight token for one gateway call. Exactly one
// resolution ever applies: the first of success, failure or timeout wins
// and every later completion is discarded.
type pendingRequest struct {
	resolved atomic.Bool
}

func newPendingRequest() *pendingRequest {
	return &pendingRequest{}
}

// resolve claims the single resolution. Returns false when the request was
// already resolved, in which case the caller must discard its result.
func (p *pendingRequest) resolve() bool {
	return p.resolved.CompareAndSwap(false, true)
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator is the entry point for each user action.
type Orchestrator struct {
	config Config

	entries    *timeline.Store
	indicators *indicator.Manager

	chat       ChatSender
	classifier Classifier
	locator    Locator
	urls       *geo.URLBuilder
	opener     geo.Opener
	reporter   ReportSender // optional

	langMu sync.RWMutex
	lang   string
}

// New creates an orchestrator over the given collaborators. The reporter
// and opener may be nil; a nil opener turns hospital lookup into a
// URL-producing no-op.
func New(
	config Config,
	entries *timeline.Store,
	indicators *indicator.Manager,
	chat ChatSender,
	classifier Classifier,
	locator Locator,
	urls *geo.URLBuilder,
	opener geo.Opener,
	reporter ReportSender,
) *Orchestrator {
	config.fillDefaults()

	if urls == nil {
		urls = geo.NewURLBuilder("", "", 0)
	}

	return &Orchestrator{
		config:     config,
		entries:    entries,
		indicators: indicators,
		chat:       chat,
		classifier: classifier,
		locator:    locator,
		urls:       urls,
		opener:     opener,
		reporter:   reporter,
		lang:       normalizeLang(config.DefaultLang, "en"),
	}
}

// =============================================================================
// LANGUAGE
// =============================================================================

// normalizeLang canonicalizes a BCP 47 tag, falling back when it cannot be
// parsed. The tag is otherwise opaque: it is passed through to the chat
// service, which owns localization.
func normalizeLang(tag, fallback string) string {
	parsed, err := language.Parse(tag)
	if err != nil {
		return fallback
	}
	return parsed.String()
}

// SetLang changes the language tag attached to chat requests. Unparseable
// tags are ignored.
func (o *Orchestrator) SetLang(tag string) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return
	}
	o.langMu.Lock()
	o.lang = parsed.String()
	o.langMu.Unlock()
}

// Lang returns the current language tag.
func (o *Orchestrator) Lang() string {
	o.langMu.RLock()
	defer o.langMu.RUnlock()
	return o.lang
}

// =============================================================================
// SEND TEXT
// =============================================================================

// OnSendText runs the send-text protocol: validate, append the user entry,
// hold the sending indicator across the chat exchange, append exactly one
// response entry (reply or fallback notice), release.
//
// Returns ErrEmptyMessage for blank input and indicator.ConflictError when
// another action is mid-flight; both are caller-side conditions that leave
// the timeline untouched.
func (o *Orchestrator) OnSendText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	// Append-before-await: the user's input is visible before any response
	// to it, whatever happens later.
	o.entries.Append(timeline.UserText(text))

	guard, err := o.indicators.Begin(indicator.KindSending)
	if err != nil {
		return err
	}
	defer guard.Release()

	reply, ok := o.sendWithTimeout(ctx, text)
	if ok {
		o.entries.Append(timeline.AssistantText(reply))
	} else {
		o.entries.Append(timeline.Notice(o.config.FallbackReply))
	}

	return nil
}

// sendWithTimeout performs one chat exchange under a pending-request token.
// A completion arriving after the timeout finds the token resolved and is
// discarded, so exactly one response entry is ever produced.
func (o *Orchestrator) sendWithTimeout(ctx context.Context, text string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, o.config.ChatTimeout)
	defer cancel()

	req := newPendingRequest()

	type outcome struct {
		reply string
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		reply, err := o.chat.Send(ctx, text, o.Lang())
		if !req.resolve() {
			return // timed out; late result is a no-op
		}
		done <- outcome{reply: reply, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return "", false
		}
		return out.reply, true

	case <-ctx.Done():
		if !req.resolve() {
			// The send resolved between the deadline firing and this
			// branch running; honor its outcome.
			out := <-done
			if out.err != nil {
				return "", false
			}
			return out.reply, true
		}
		return "", false
	}
}

// =============================================================================
// SEND IMAGE
// =============================================================================

// OnImageSelected runs the send-image protocol. The image reference is
// appended before any async work so the user sees their upload even if
// classification never completes. Classification failure degrades to a
// plain notice; the result report is fire-and-forget either way.
func (o *Orchestrator) OnImageSelected(ctx context.Context, imageData []byte, imageRef string) error {
	// Each classification gets a request ID; the report carries it so a
	// server-side log line can be matched to the local history record.
	requestID := uuid.NewString()

	o.entries.Append(timeline.UserImage(imageRef))

	guard, err := o.indicators.Begin(indicator.KindClassifying)
	if err != nil {
		return err
	}

	classifyCtx, cancel := context.WithTimeout(ctx, o.config.ClassifyTimeout)
	result, classifyErr := o.classifier.Classify(classifyCtx, imageData, imageRef)
	cancel()

	report := telemetry.Report{RequestID: requestID, Label: reportLabelUnavailable}
	if classifyErr == nil {
		o.entries.Append(timeline.ClassificationResult(timeline.Classification{
			Label:      result.Label,
			Confidence: result.Confidence,
			ImageRef:   result.ImageRef,
		}))
		report = telemetry.Report{RequestID: requestID, Label: result.Label, Confidence: result.Confidence}
	} else if errors.Is(classifyErr, inference.ErrDecode) {
		o.entries.Append(timeline.Notice(o.config.DecodeNotice))
	} else {
		o.entries.Append(timeline.Notice(o.config.ModelNotice))
	}

	guard.Release()

	// Best-effort report; its failure is guaranteed unobservable here.
	if o.reporter != nil {
		o.reporter.Send(ctx, report)
	}

	return nil
}

// =============================================================================
// HOSPITAL LOOKUP
// =============================================================================

// OnHospitalRequested runs the hospital-lookup protocol and returns the
// destination URL it opened. Both the denied and unavailable outcomes
// degrade to the generic search URL; this path has no unrecoverable
// failure mode.
func (o *Orchestrator) OnHospitalRequested(ctx context.Context) (string, error) {
	o.entries.Append(timeline.Notice(o.config.LocatingText))

	guard, err := o.indicators.Begin(indicator.KindLocating)
	if err != nil {
		return "", err
	}

	var destination string
	if o.locator == nil {
		destination = o.urls.FallbackURL()
	} else if coords, locErr := o.locator.Locate(ctx); locErr == nil {
		destination = o.urls.SearchURL(coords)
	} else {
		// Denied and unavailable both land here; neither is retried.
		destination = o.urls.FallbackURL()
	}

	guard.Release()

	if o.opener != nil {
		if openErr := o.opener.Open(destination); openErr != nil {
			// The destination is still usable; surface it as text.
			o.entries.Append(timeline.Notice(DefaultOpenFailText + destination))
		}
	}

	return destination, nil
}
