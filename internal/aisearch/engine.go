// Package aisearch finds missing enactment dates by asking an external
// language model about a bounded sample of each statute's opening sections.
package aisearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/statute-enricher/internal/cache"
	"github.com/jonathan/statute-enricher/internal/dates"
	"github.com/jonathan/statute-enricher/internal/llm"
	"github.com/jonathan/statute-enricher/internal/types"
)

// Sampling bounds: the prompt carries at most the first SampleSections
// sections, truncated to SampleMaxChars characters.
const (
	SampleSections = 3
	SampleMaxChars = 2000
)

// DefaultMinSampleChars is the minimum sample length worth an external call.
// Shorter samples are flagged low-confidence instead of being sent out.
const DefaultMinSampleChars = 50

// DefaultCallTimeout bounds one external extraction call.
const DefaultCallTimeout = 60 * time.Second

// Document is one enrichment candidate: a statute still missing its date.
type Document struct {
	ID             string
	StatuteName    string
	Province       string
	Batch          string
	SectionsSample string
}

// Engine drives AI date extraction with caching, bounded retry, and
// per-document failure isolation.
type Engine struct {
	Client         llm.Client
	Cache          cache.Cache
	Tier           llm.ModelTier
	Retry          llm.RetryPolicy
	CallTimeout    time.Duration
	MinSampleChars int
}

// NewEngine creates an engine with default thresholds. cacheStore may be nil
// to disable prompt caching.
func NewEngine(client llm.Client, cacheStore cache.Cache) *Engine {
	return &Engine{
		Client:         client,
		Cache:          cacheStore,
		Tier:           llm.TierStandard,
		Retry:          llm.DefaultRetryPolicy(),
		CallTimeout:    DefaultCallTimeout,
		MinSampleChars: DefaultMinSampleChars,
	}
}

// BuildSample concatenates the first SampleSections sections' text and
// truncates the result to SampleMaxChars.
func BuildSample(sections []types.Section) string {
	var sb strings.Builder
	for i, sec := range sections {
		if i >= SampleSections {
			break
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(sec.Content)
		if sb.Len() >= SampleMaxChars {
			break
		}
	}
	sample := sb.String()
	if len(sample) > SampleMaxChars {
		// Back off to a rune boundary so the truncation never splits a
		// multi-byte character.
		cut := SampleMaxChars
		for cut > 0 && !utf8.RuneStart(sample[cut]) {
			cut--
		}
		sample = sample[:cut]
	}
	return sample
}

// DocumentFromStatute builds an enrichment candidate from a statute document.
func DocumentFromStatute(id, batch string, st types.Statute) Document {
	province, _ := st.Extra["Province"].(string)
	return Document{
		ID:             id,
		StatuteName:    st.Name,
		Province:       province,
		Batch:          batch,
		SectionsSample: BuildSample(st.Sections),
	}
}

// extractionResponse is the wire shape the model is asked to return.
type extractionResponse struct {
	Date       *string         `json:"date"`
	Confidence json.RawMessage `json:"confidence"`
	Rationale  string          `json:"rationale"`
}

// ExtractOne runs a single date extraction. A too-short sample is flagged
// low-confidence without an external call. An extracted date that fails
// plausibility validation is recorded with a nil date rather than accepted.
func (e *Engine) ExtractOne(ctx context.Context, doc Document) (*types.AIExtractionResult, error) {
	result := &types.AIExtractionResult{
		DocumentID:  doc.ID,
		StatuteName: doc.StatuteName,
		Batch:       doc.Batch,
		Method:      types.ExtractionMethodAI,
	}

	minChars := e.MinSampleChars
	if minChars <= 0 {
		minChars = DefaultMinSampleChars
	}
	if len(strings.TrimSpace(doc.SectionsSample)) < minChars {
		result.Confidence = 0
		result.Rationale = fmt.Sprintf("sample too short for extraction (%d chars)", len(doc.SectionsSample))
		return result, nil
	}

	prompt := buildPrompt(doc)

	if e.Cache != nil {
		if cached, ok := e.Cache.Get(promptKey(prompt)); ok {
			if resp, ok := cached.(extractionResponse); ok {
				e.applyResponse(result, resp)
				return result, nil
			}
		}
	}

	callCtx := ctx
	if e.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.CallTimeout)
		defer cancel()
	}

	raw, err := llm.GenerateJSONWithRetry(callCtx, e.Client, prompt, e.Tier, e.Retry)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed for %s: %w", doc.ID, err)
	}

	var resp extractionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("unparseable extraction response for %s: %w", doc.ID, err)
	}

	if e.Cache != nil {
		e.Cache.Set(promptKey(prompt), resp, cache.DefaultTTL)
	}

	e.applyResponse(result, resp)
	return result, nil
}

// applyResponse fills a result from a parsed model response, rejecting
// implausible dates.
func (e *Engine) applyResponse(result *types.AIExtractionResult, resp extractionResponse) {
	result.Confidence = llm.ParseConfidence(resp.Confidence)
	result.Rationale = resp.Rationale

	if resp.Date == nil || strings.TrimSpace(*resp.Date) == "" {
		return
	}

	canonical, err := dates.Canonicalize(*resp.Date)
	if err != nil {
		result.Rationale = fmt.Sprintf("rejected extracted date %q: %v", *resp.Date, err)
		result.Confidence = 0
		return
	}
	result.ExtractedDate = &canonical
}

func buildPrompt(doc Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Statute: %s\n", doc.StatuteName))
	if doc.Province != "" {
		sb.WriteString(fmt.Sprintf("Jurisdiction: %s\n", doc.Province))
	}
	sb.WriteString("\n")
	sb.WriteString(doc.SectionsSample)
	return llm.BuildExtractionPrompt(llm.EnactmentDateSchema(), sb.String())
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
