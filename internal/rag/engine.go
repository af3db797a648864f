package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks consumer-assistant/internal/rag Engine,Reranker

import (
	"context"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"consumer-assistant/internal/contextutil"
	"consumer-assistant/internal/corpus"
)

var tracer = otel.Tracer("consumer-assistant/rag")

// Engine answers retrieval requests over the corpus.
type Engine interface {
	// AnswerOrgInfo selects the single best "about" document for a question.
	AnswerOrgInfo(ctx context.Context, text string) (OrgAnswer, error)
	// RecommendLinks selects brochures, articles and videos relevant to a message.
	RecommendLinks(ctx context.Context, text string) (LinkSet, error)
}

// Reranker orders candidate documents by relevance to a query. It returns positions
// into docs, most relevant first, and may omit documents it judges irrelevant.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []corpus.Document) ([]int, error)
}

// EngineConfig tunes candidate counts and answer size.
type EngineConfig struct {
	// OrgAnswerChars is the character limit for org-info answers.
	OrgAnswerChars int
	// OrgCandidates is how many lexical candidates are considered for org-info.
	OrgCandidates int
	// OrgSemanticK adds this many semantic neighbours to the org-info candidates.
	// Zero disables it.
	OrgSemanticK int
	// LinksTopK is the semantic top-K for link recommendations.
	LinksTopK int
	// LinksFallbackCount is how many candidates are shown when reranking fails.
	LinksFallbackCount int
}

// DefaultEngineConfig returns the standard tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		OrgAnswerChars:     800,
		OrgCandidates:      3,
		OrgSemanticK:       3,
		LinksTopK:          30,
		LinksFallbackCount: 3,
	}
}

// linkSources is the pool for link recommendations.
var linkSources = []corpus.Source{corpus.SourceBrochure, corpus.SourceArticle, corpus.SourceVideo}

type ragEngine struct {
	snapshot *corpus.Snapshot
	analyzer *Analyzer
	detector *CategoryDetector
	scorer   *LexicalScorer
	semantic *SemanticRetriever
	reranker Reranker
	cfg      EngineConfig
}

// NewEngine creates an engine over an immutable corpus snapshot. semantic and
// reranker are optional.
func NewEngine(
	snap *corpus.Snapshot,
	analyzer *Analyzer,
	detector *CategoryDetector,
	semantic *SemanticRetriever,
	reranker Reranker,
	cfg EngineConfig,
) Engine {
	def := DefaultEngineConfig()
	if cfg.OrgAnswerChars <= 0 {
		cfg.OrgAnswerChars = def.OrgAnswerChars
	}
	if cfg.OrgCandidates <= 0 {
		cfg.OrgCandidates = def.OrgCandidates
	}
	if cfg.OrgSemanticK < 0 {
		cfg.OrgSemanticK = 0
	}
	if cfg.LinksTopK <= 0 {
		cfg.LinksTopK = def.LinksTopK
	}
	if cfg.LinksFallbackCount <= 0 {
		cfg.LinksFallbackCount = def.LinksFallbackCount
	}
	return &ragEngine{
		snapshot: snap,
		analyzer: analyzer,
		detector: detector,
		scorer:   NewLexicalScorer(snap, analyzer),
		semantic: semantic,
		reranker: reranker,
		cfg:      cfg,
	}
}

// AnswerOrgInfo scores "about" documents in fallback mode, merges optional semantic
// neighbours, keeps candidates at or above the inclusion threshold and lets the
// reranker pick the answer.
func (e *ragEngine) AnswerOrgInfo(ctx context.Context, text string) (OrgAnswer, error) {
	ctx, span := tracer.Start(ctx, "rag.AnswerOrgInfo")
	defer span.End()
	logger := contextutil.LoggerFromContext(ctx)

	q := e.analyzer.Analyze(text)
	category := e.detector.Detect(q)
	pool := e.snapshot.Pool(corpus.SourceAbout)

	all := e.scorer.Score(q, category, pool, ModeFallback)
	byIndex := make(map[int]float64, len(all))
	for _, sd := range all {
		byIndex[sd.Index] = sd.Score
	}
	SortScored(all)
	candidates := append([]ScoredDocument(nil), Top(all, e.cfg.OrgCandidates)...)

	if e.semantic != nil && e.cfg.OrgSemanticK > 0 {
		neighbours, err := e.semantic.Retrieve(ctx, text, e.cfg.OrgSemanticK, corpus.SourceAbout)
		if err != nil {
			logger.WarnContext(ctx, "semantic retrieval failed, using lexical candidates", "error", err)
		}
		candidates = mergeCandidates(candidates, neighbours, byIndex)
	}

	eligible := candidates[:0:0]
	for _, c := range candidates {
		if c.Score >= InclusionThreshold {
			eligible = append(eligible, c)
		}
	}

	span.SetAttributes(
		attribute.String("rag.category", category),
		attribute.Int("rag.candidates", len(candidates)),
		attribute.Int("rag.eligible", len(eligible)),
	)
	logger.InfoContext(ctx, "org-info candidates scored",
		"category", category,
		"signals", q.Signals,
		"candidates", len(candidates),
		"eligible", len(eligible),
	)

	if err := ctx.Err(); err != nil {
		return OrgAnswer{}, err
	}
	if len(eligible) == 0 {
		return OrgAnswer{Category: category}, nil
	}

	ranked, _ := e.rerank(ctx, span, text, eligible)
	top := ranked[0]
	doc := e.snapshot.At(top.Index)
	content, truncated := truncateRunes(doc.Body(), e.cfg.OrgAnswerChars)

	return OrgAnswer{
		Found:      true,
		DocumentID: doc.ID,
		Title:      doc.Title,
		Content:    content,
		Truncated:  truncated,
		Score:      top.Score,
		Category:   category,
	}, nil
}

// RecommendLinks retrieves semantic neighbours from brochures, articles and videos
// and returns every document the reranker keeps, in its order. Without a semantic
// retriever, or when it fails, default-mode lexical scoring supplies the candidates.
func (e *ragEngine) RecommendLinks(ctx context.Context, text string) (LinkSet, error) {
	ctx, span := tracer.Start(ctx, "rag.RecommendLinks")
	defer span.End()
	logger := contextutil.LoggerFromContext(ctx)

	var (
		candidates []ScoredDocument
		semantic   bool
	)
	if e.semantic != nil {
		found, err := e.semantic.Retrieve(ctx, text, e.cfg.LinksTopK, linkSources...)
		if err != nil {
			logger.WarnContext(ctx, "semantic retrieval failed, falling back to lexical scoring", "error", err)
		} else if len(found) > 0 {
			candidates = found
			semantic = true
		}
	}
	if !semantic {
		q := e.analyzer.Analyze(text)
		category := e.detector.Detect(q)
		candidates = e.scorer.Score(q, category, e.snapshot.Pool(linkSources...), ModeDefault)
		SortScored(candidates)
		candidates = Top(candidates, e.cfg.LinksTopK)
	}

	span.SetAttributes(
		attribute.Bool("rag.semantic", semantic),
		attribute.Int("rag.candidates", len(candidates)),
	)
	logger.InfoContext(ctx, "link candidates retrieved", "semantic", semantic, "candidates", len(candidates))

	if err := ctx.Err(); err != nil {
		return LinkSet{}, err
	}
	if len(candidates) == 0 {
		return LinkSet{Semantic: semantic}, nil
	}

	ranked, ok := e.rerank(ctx, span, text, candidates)
	if !ok {
		ranked = Top(candidates, e.cfg.LinksFallbackCount)
	}

	links := make([]Link, 0, len(ranked))
	for _, sd := range ranked {
		doc := e.snapshot.At(sd.Index)
		links = append(links, Link{
			DocumentID: doc.ID,
			Title:      doc.Title,
			URL:        doc.URL,
			Source:     doc.Source,
			Score:      sd.Score,
		})
	}
	return LinkSet{Links: links, Semantic: semantic, Reranked: ok}, nil
}

// rerank asks the reranker to order candidates. On failure, or when it keeps no
// document, candidates are returned unchanged with ok=false. A single candidate is
// returned as is.
func (e *ragEngine) rerank(ctx context.Context, span trace.Span, query string, candidates []ScoredDocument) ([]ScoredDocument, bool) {
	if e.reranker == nil {
		return candidates, false
	}
	if len(candidates) == 1 {
		return candidates, true
	}

	docs := make([]corpus.Document, len(candidates))
	for i, c := range candidates {
		docs[i] = e.snapshot.At(c.Index)
	}

	order, err := e.reranker.Rerank(ctx, query, docs)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "rerank failed, keeping retrieval order", "error", err)
		span.RecordError(err)
		return candidates, false
	}
	ranked := applyOrder(candidates, order)
	if len(ranked) == 0 {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "rerank returned no usable positions, keeping retrieval order", "order", order)
		return candidates, false
	}
	return ranked, true
}

// mergeCandidates appends semantic neighbours not already present, scored with their
// lexical score.
func mergeCandidates(candidates, neighbours []ScoredDocument, lexical map[int]float64) []ScoredDocument {
	seen := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		seen[c.Index] = true
	}
	for _, n := range neighbours {
		if seen[n.Index] {
			continue
		}
		seen[n.Index] = true
		candidates = append(candidates, ScoredDocument{Score: lexical[n.Index], Index: n.Index})
	}
	return candidates
}

func truncateRunes(s string, n int) (string, bool) {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:n]), true
}
