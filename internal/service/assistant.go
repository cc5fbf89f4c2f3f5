package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"roomie/internal/model"
	"roomie/internal/repository"
	"roomie/internal/resilience"
	"roomie/internal/utils"
)

// Assistant answers one free-text question with exactly one reply:
// classify, extract, plan, aggregate, synthesize. It never returns an error;
// every failure is mapped to a terminal reply here.
type Assistant struct {
	classifier  *IntentClassifier
	extractor   *SlotExtractor
	aggregator  *Aggregator
	synthesizer *Synthesizer
	platform    DocumentFetcher
}

// NewAssistant wires the pipeline. Every completion, store query and document
// fetch gets its own callTimeout.
func NewAssistant(completer Completer, store repository.Store, platform DocumentFetcher, callTimeout time.Duration) *Assistant {
	bounded := timeoutCompleter{next: completer, timeout: callTimeout}
	return &Assistant{
		classifier:  NewIntentClassifier(bounded),
		extractor:   NewSlotExtractor(bounded),
		aggregator:  NewAggregator(timeoutStore{next: store, timeout: callTimeout}),
		synthesizer: NewSynthesizer(bounded),
		platform:    timeoutFetcher{next: platform, timeout: callTimeout},
	}
}

// Ask runs the pipeline for one message
func (a *Assistant) Ask(ctx context.Context, message string) *model.AskResponse {
	startTime := time.Now()
	reqID := RequestIDFrom(ctx)

	message = strings.TrimSpace(message)
	if message == "" {
		return &model.AskResponse{Response: ReplyEmptyMessage}
	}

	reply := a.route(ctx, reqID, message)

	log.Printf("[Assistant][%s] ✅ Answered in %dms", reqID, time.Since(startTime).Milliseconds())
	return &model.AskResponse{Response: reply}
}

func (a *Assistant) route(ctx context.Context, reqID, message string) string {
	intent, err := a.classifier.Classify(ctx, message)
	if err != nil {
		a.logFailure(reqID, "classify", err)
		return ReplyRetrieveFailure
	}
	log.Printf("[Assistant][%s] 🏷️ Intent: %s", reqID, intent)

	switch intent {
	case model.IntentRecommendation:
		return a.recommend(ctx, reqID, message)
	case model.IntentComparison:
		return a.compare(ctx, reqID, message)
	case model.IntentFacilities:
		return a.hotelQuestion(ctx, reqID, intent, message, a.aggregator.Facilities)
	case model.IntentPrice:
		return a.hotelQuestion(ctx, reqID, intent, message, a.aggregator.Price)
	case model.IntentPlatformInfo:
		return a.platformInfo(ctx, reqID, message)
	case model.IntentGeneral:
		return a.synthesize(ctx, reqID, intent, message, "")
	default:
		return a.decline(ctx, reqID, message)
	}
}

func (a *Assistant) recommend(ctx context.Context, reqID, message string) string {
	slots, err := a.extractor.ExtractRecommendation(ctx, message)
	if err != nil {
		return a.extractionFailure(reqID, err)
	}

	plan := PlanRecommendation(slots)
	utils.Debugf("[%s] 🗺️ Plan %s: accommodations[%s] rooms[%s]", reqID, plan.Strategy, plan.Accommodation, plan.Room)
	if plan.Strategy == StrategyNone {
		return ReplyNoMatch
	}

	result, err := a.aggregator.Recommend(ctx, plan)
	return a.finish(ctx, reqID, model.IntentRecommendation, message, result, err)
}

func (a *Assistant) compare(ctx context.Context, reqID, message string) string {
	slots, err := a.extractor.ExtractComparison(ctx, message)
	if err != nil {
		return a.extractionFailure(reqID, err)
	}

	result, err := a.aggregator.Compare(ctx, slots)
	return a.finish(ctx, reqID, model.IntentComparison, message, result, err)
}

func (a *Assistant) hotelQuestion(
	ctx context.Context,
	reqID string,
	intent model.Intent,
	message string,
	aggregate func(context.Context, *model.HotelSlots) (AggregatedResult, error),
) string {
	slots, err := a.extractor.ExtractHotel(ctx, message)
	if err != nil {
		return a.extractionFailure(reqID, err)
	}

	result, err := aggregate(ctx, slots)
	return a.finish(ctx, reqID, intent, message, result, err)
}

func (a *Assistant) platformInfo(ctx context.Context, reqID, message string) string {
	doc, err := a.platform.Fetch(ctx)
	if err != nil {
		a.logFailure(reqID, "fetch platform info", err)
		return ReplyPlatformFailure
	}
	return a.synthesize(ctx, reqID, model.IntentPlatformInfo, message, doc)
}

func (a *Assistant) decline(ctx context.Context, reqID, message string) string {
	answer, err := a.synthesizer.Decline(ctx, message)
	if err != nil {
		a.logFailure(reqID, "decline", err)
		return ReplyDecline
	}
	return answer
}

// finish turns an aggregation outcome into the reply
func (a *Assistant) finish(ctx context.Context, reqID string, intent model.Intent, message string, result AggregatedResult, err error) string {
	if err != nil {
		a.logFailure(reqID, "aggregate", err)
		return ReplyRetrieveFailure
	}
	if result.Terminal() {
		log.Printf("[Assistant][%s] ⚠️ Terminal reply for %s: %s", reqID, intent, result.Reply)
		return result.Reply
	}
	utils.Debugf("[%s] 📄 Grounding:\n%s", reqID, result.Grounding)
	return a.synthesize(ctx, reqID, intent, message, result.Grounding)
}

func (a *Assistant) synthesize(ctx context.Context, reqID string, intent model.Intent, message, grounding string) string {
	answer, err := a.synthesizer.Synthesize(ctx, intent, message, grounding)
	if err != nil {
		a.logFailure(reqID, "synthesize", err)
		return ReplyRetrieveFailure
	}
	return answer
}

func (a *Assistant) extractionFailure(reqID string, err error) string {
	if errors.Is(err, ErrExtractionFailed) {
		log.Printf("[Assistant][%s] ⚠️ %v", reqID, err)
		return ReplyClarify
	}
	a.logFailure(reqID, "extract", err)
	return ReplyRetrieveFailure
}

func (a *Assistant) logFailure(reqID, stage string, err error) {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		log.Printf("[Assistant][%s] ⚠️ %s skipped, completion circuit open", reqID, stage)
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("[Assistant][%s] ❌ %s timed out: %v", reqID, stage, err)
	default:
		log.Printf("[Assistant][%s] ❌ %s failed: %v", reqID, stage, err)
	}
}
