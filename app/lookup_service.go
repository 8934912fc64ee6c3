package app

import (
	"context"
	"strings"

	"labstock/ai"
	"labstock/domain/spec"
	"labstock/internal"
	"labstock/internal/config"
	"labstock/models"
	"labstock/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// LookupService walks the spec resolution cascade for one model name:
// personal cache, then knowledge-base text run through the local
// extractor, then the community store, then a needs-user-input signal.
// Stages run strictly in order; a failing stage degrades to a miss and
// never aborts the lookup.
type LookupService struct {
	cache     ports.SpecCache
	community ports.CommunityStore
	knowledge ports.KnowledgeBase
	session   ports.InferenceSession
	genParams ports.GenerateParams
	config    config.LookupConfig
	logger    *internal.Logger
	group     singleflight.Group
}

// NewLookupService creates the cascade orchestrator
func NewLookupService(
	cache ports.SpecCache,
	community ports.CommunityStore,
	knowledge ports.KnowledgeBase,
	session ports.InferenceSession,
	genParams ports.GenerateParams,
	lookupConfig config.LookupConfig,
) *LookupService {
	return &LookupService{
		cache:     cache,
		community: community,
		knowledge: knowledge,
		session:   session,
		genParams: genParams,
		config:    lookupConfig,
		logger:    internal.DefaultLogger.Component("LookupCascade"),
	}
}

// Resolve runs the full cascade for a model name. Concurrent calls for
// the same user and normalized model share one walk; different models
// proceed independently.
func (s *LookupService) Resolve(ctx context.Context, userID uuid.UUID, model string) models.LookupResult {
	if strings.TrimSpace(model) == "" {
		return models.LookupResult{Success: false, Error: "Model name is required"}
	}

	key := userID.String() + "\x00" + spec.Normalize(model)
	result, _, _ := s.group.Do(key, func() (interface{}, error) {
		// The walk is shared by every co-flighted caller, so it must
		// not die with whichever one happened to start it. Each stage
		// bounds its own work with internal timeouts.
		return s.resolve(context.WithoutCancel(ctx), userID, model), nil
	})
	return result.(models.LookupResult)
}

func (s *LookupService) resolve(ctx context.Context, userID uuid.UUID, model string) models.LookupResult {
	// 1. Personal cache, the zero-latency fast path
	if hit, err := s.cache.Check(ctx, userID, model); err != nil {
		s.logger.Warn("cache check failed for %q: %v", model, err)
	} else if hit.Cached && !hit.Specs.IsEmpty() {
		return models.LookupResult{Success: true, Specs: hit.Specs, Source: models.SourceCache}
	}

	// 2. Instant-answer abstract fed through the local extractor
	if result, ok := s.webStage(ctx, userID, model); ok {
		return result
	}

	// 3. Crowd-contributed specs, verified entries only
	if result, ok := s.communityStage(ctx, userID, model); ok {
		return result
	}

	// 4. Exhausted; the caller prompts the user for pasted text.
	// Expected for rare or custom hardware, not an error.
	return models.LookupResult{Success: false, NeedsUserInput: true}
}

// webStage queries the knowledge base and, when the abstract is long
// enough to carry signal, extracts structured specs from it. Every
// failure inside the stage reads as a miss.
func (s *LookupService) webStage(ctx context.Context, userID uuid.UUID, model string) (models.LookupResult, bool) {
	answer, err := s.knowledge.Query(ctx, model+" specifications CPU RAM")
	if err != nil {
		s.logger.Warn("knowledge query failed for %q: %v", model, err)
		return models.LookupResult{}, false
	}
	if len(answer.Text) < s.config.UsefulTextThreshold {
		return models.LookupResult{}, false
	}

	specs := s.extract(ctx, model, answer.Text)
	if specs.IsEmpty() {
		return models.LookupResult{}, false
	}

	if err := s.cache.Save(ctx, userID, model, specs, answer.SourceURL); err != nil {
		s.logger.Warn("cache write-through failed for %q: %v", model, err)
		return models.LookupResult{}, false
	}
	return models.LookupResult{Success: true, Specs: specs, Source: models.SourceWebDerived}, true
}

func (s *LookupService) communityStage(ctx context.Context, userID uuid.UUID, model string) (models.LookupResult, bool) {
	hit, err := s.community.Find(ctx, model)
	if err != nil {
		s.logger.Warn("community lookup failed for %q: %v", model, err)
		return models.LookupResult{}, false
	}
	if !hit.Found || hit.Specs.IsEmpty() {
		return models.LookupResult{}, false
	}

	if err := s.cache.Save(ctx, userID, model, hit.Specs, ""); err != nil {
		s.logger.Warn("cache write-through failed for %q: %v", model, err)
		return models.LookupResult{}, false
	}
	return models.LookupResult{Success: true, Specs: hit.Specs, Source: models.SourceCommunity}, true
}

// ExtractFromText is the secondary entry point used after exhaustion:
// the user pasted specification text, so an undecodable result here is
// a genuine error, not a needs-user-input signal.
func (s *LookupService) ExtractFromText(ctx context.Context, userID uuid.UUID, model, pastedText string) models.LookupResult {
	if strings.TrimSpace(pastedText) == "" {
		return models.LookupResult{Success: false, Error: "Text is required"}
	}

	specs := s.extract(ctx, model, pastedText)
	if specs.IsEmpty() {
		return models.LookupResult{Success: false, Error: "Could not extract specs from text"}
	}

	if err := s.cache.Save(ctx, userID, model, specs, ""); err != nil {
		s.logger.Warn("cache write-through failed for %q: %v", model, err)
		return models.LookupResult{Success: false, Error: "Failed to save extracted specs"}
	}
	return models.LookupResult{Success: true, Specs: specs, Source: models.SourceUserProvided}
}

// extract runs prompt build, completion and decode. A nil return means
// the engine was unavailable or its output carried no usable fields.
func (s *LookupService) extract(ctx context.Context, model, text string) *spec.Specification {
	if s.session.Status().State != models.SessionStateReady {
		if !s.session.Initialize(ctx) {
			s.logger.Warn("inference session unavailable for %q", model)
			return nil
		}
	}

	prompt := ai.BuildExtractionPrompt(model, text)
	reply, err := s.session.Complete(ctx, prompt, s.genParams)
	if err != nil {
		s.logger.Warn("completion failed for %q: %v", model, err)
		return nil
	}

	return ai.DecodeSpecs(reply)
}

// InferenceStatus exposes the session snapshot for status displays
func (s *LookupService) InferenceStatus() models.SessionStatus {
	return s.session.Status()
}

// ResetInference unloads the engine so a failed load can be retried
func (s *LookupService) ResetInference() {
	s.session.Reset()
}
