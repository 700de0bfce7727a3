package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"docuchat-be/internal/dto"
	"docuchat-be/internal/entity"
	"docuchat-be/internal/pkg/logger"
	"docuchat-be/internal/pkg/serverutils"
	"docuchat-be/internal/repository/memory"
	"docuchat-be/internal/repository/specification"
	"docuchat-be/internal/repository/unitofwork"
	"docuchat-be/pkg/embedding"
	"docuchat-be/pkg/llm"
	"docuchat-be/pkg/rag"
	"docuchat-be/pkg/tokenizer"
	"docuchat-be/pkg/wire"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// debugCommand embedded anywhere in a user message switches the
	// session into debug mode for this and all following turns.
	debugCommand = "###debug"

	// maxAttempts bounds how often one turn is submitted to the model
	// when the response violates the output contract.
	maxAttempts = 2

	// retrievalK is the per-source nearest-neighbor count.
	retrievalK = 25

	// summaryPrefixLimit caps the fallback history summary taken from the
	// answer when the model declared no summary section.
	summaryPrefixLimit = 200
)

// completionContract is appended to every bot's system prompt. It
// instructs the model on the context sections of user messages and on
// the answer/summary output format.
const completionContract = `
A user question starts with ###question followed by the actual question. After it you may find one or more sections delimited with ###context-<id>. Each section carries a title and text with additional context that may or may not be relevant to the question.

To create your answer, follow these steps:
- Take the previous messages in the conversation into account.
- Use the relevant context sections to formulate your answer.
- If no context section is relevant, answer from your general knowledge.
- IMPORTANT! After your answer, print ---summary followed by a single sentence summarizing your answer.

Your replies must be formatted like this:
"
<your answer>
---summary
<your single sentence summary>
"`

var (
	ErrNoCompletion = errors.New("could not get completion")
	ErrNoAnswer     = errors.New("could not get answer")
)

type IChatService interface {
	CreateSession(ctx context.Context, botId uuid.UUID) (*entity.ChatSession, error)
	// Complete runs one chat turn and streams the visible answer (and an
	// optional debug chunk) to out.
	Complete(ctx context.Context, sessionId uuid.UUID, message string, out *wire.Encoder) error
	// Answer runs a session-less single-shot question against a bot.
	Answer(ctx context.Context, botId uuid.UUID, question string, out *wire.Encoder) error
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	llmProvider       llm.Provider
	embeddingProvider embedding.Provider
	collections       ICollectionService
	expander          *rag.QueryExpander
	reranker          rag.Reranker // nil when no backend is configured
	tokenizer         *tokenizer.Tokenizer
	locks             *memory.SessionLockRepository
	logger            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.Provider,
	embeddingProvider embedding.Provider,
	collections ICollectionService,
	reranker rag.Reranker,
	tk *tokenizer.Tokenizer,
	locks *memory.SessionLockRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:        uowFactory,
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		collections:       collections,
		expander:          rag.NewQueryExpander(llmProvider, ""),
		reranker:          reranker,
		tokenizer:         tk,
		locks:             locks,
		logger:            log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, botId uuid.UUID) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: botId})
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, serverutils.NotFound("bot does not exist")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// The bot's source set is snapshotted onto the session so edits to
	// the bot do not change the retrieval scope of an open conversation.
	session := &entity.ChatSession{
		BotId:        botId,
		SourceIds:    bot.SourceIds,
		LastModified: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	// Both message logs are seeded with the system prompt and the bot's
	// welcome message. These two entries are always submitted to the
	// model regardless of the token budget.
	systemContent := bot.SystemPrompt + "\n" + completionContract
	seeds := []struct {
		role    string
		content string
	}{
		{llm.RoleSystem, systemContent},
		{llm.RoleAssistant, bot.WelcomeMessage},
	}
	for _, seed := range seeds {
		message := &entity.ChatMessage{
			ChatSessionId: session.Id,
			Role:          seed.role,
			Content:       seed.content,
		}
		if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
			return nil, err
		}
		raw := &entity.ChatMessageRaw{
			ChatSessionId: session.Id,
			Role:          seed.role,
			Content:       seed.content,
		}
		if err := uow.ChatMessageRawRepository().Create(ctx, raw); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *chatService) Complete(ctx context.Context, sessionId uuid.UUID, message string, out *wire.Encoder) error {
	// Turns on one session are serialized so concurrent calls cannot
	// interleave their history appends.
	lock := s.locks.Get(sessionId.String())
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return serverutils.NotFound("session does not exist")
	}
	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: session.BotId})
	if err != nil {
		return err
	}
	if bot == nil {
		return serverutils.NotFound("bot does not exist")
	}

	rawMessages, err := uow.ChatMessageRawRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "seq", Direction: "asc"},
	)
	if err != nil {
		return err
	}
	if len(rawMessages) < 2 {
		return serverutils.NewAppError(fiber.StatusInternalServerError, "session history is corrupt")
	}

	question := message
	if strings.Contains(message, debugCommand) {
		session.DebugEnabled = true
		question = strings.TrimSpace(strings.ReplaceAll(message, debugCommand, ""))
	}

	turn, err := s.runTurn(ctx, bot, turnInput{
		question:      question,
		systemContent: rawMessages[0].Content,
		welcome:       rawMessages[1].Content,
		rawHistory:    rawMessages,
		sourceIds:     session.SourceIds,
		model:         bot.ChatModel,
		maxTokens:     bot.ChatMaxTokens,
	}, out)
	if err != nil {
		s.logger.Error("chat", "completion turn failed", map[string]interface{}{
			"sessionId": sessionId.String(),
			"error":     err.Error(),
		})
		return ErrNoCompletion
	}

	summary := turn.summary
	if summary == "" {
		summary = clip(turn.answer, summaryPrefixLimit)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	fullLog := []*entity.ChatMessage{
		{ChatSessionId: sessionId, Role: llm.RoleUser, Content: turn.userMessage},
		{ChatSessionId: sessionId, Role: llm.RoleAssistant, Content: turn.response},
	}
	for _, m := range fullLog {
		if err := uow.ChatMessageRepository().Create(ctx, m); err != nil {
			return err
		}
	}
	rawLog := []*entity.ChatMessageRaw{
		{ChatSessionId: sessionId, Role: llm.RoleUser, Content: question},
		{ChatSessionId: sessionId, Role: llm.RoleAssistant, Content: summary},
	}
	for _, m := range rawLog {
		if err := uow.ChatMessageRawRepository().Create(ctx, m); err != nil {
			return err
		}
	}

	session.LastModified = time.Now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if session.DebugEnabled {
		payload, err := json.Marshal(turn.debug)
		if err != nil {
			return err
		}
		return out.WriteDebug(string(payload))
	}
	return nil
}

func (s *chatService) Answer(ctx context.Context, botId uuid.UUID, question string, out *wire.Encoder) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	bot, err := uow.BotRepository().FindOne(ctx, specification.ByID{ID: botId})
	if err != nil {
		return err
	}
	if bot == nil {
		return serverutils.NotFound("bot does not exist")
	}

	_, err = s.runTurn(ctx, bot, turnInput{
		question:      question,
		systemContent: bot.SystemPrompt + "\n" + completionContract,
		sourceIds:     bot.SourceIds,
		model:         bot.AnswerModel,
		maxTokens:     bot.AnswerMaxTokens,
	}, out)
	if err != nil {
		s.logger.Error("chat", "answer turn failed", map[string]interface{}{
			"botId": botId.String(),
			"error": err.Error(),
		})
		return ErrNoAnswer
	}
	return nil
}

// turnInput describes one completion turn. A nil rawHistory means
// single-shot answer mode: no welcome seed, no history phase in the
// packer.
type turnInput struct {
	question      string
	systemContent string
	welcome       string
	rawHistory    []*entity.ChatMessageRaw
	sourceIds     []string
	model         string
	maxTokens     int
}

type turnResult struct {
	userMessage string
	response    string
	answer      string
	summary     string
	debug       *dto.CompletionDebug
}

func (s *chatService) runTurn(ctx context.Context, bot *entity.Bot, in turnInput, out *wire.Encoder) (*turnResult, error) {
	// Expanding. The expander sees the conversation without the system
	// seed; in answer mode there is no conversation at all.
	var expanderHistory []llm.Message
	if len(in.rawHistory) > 2 {
		expanderHistory = rawToLLMMessages(in.rawHistory[1:])
	}
	expansion, err := s.expander.Expand(ctx, expanderHistory, in.question)
	if err != nil {
		return nil, err
	}
	ragQuery := in.question + "\n" + expansion.Query

	// Retrieving, across all of the bot's sources concurrently.
	vectors, err := s.embeddingProvider.Embed(ctx, []string{ragQuery})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	collections := make([]*rag.Collection, 0, len(in.sourceIds))
	for _, sourceID := range in.sourceIds {
		collection, err := s.collections.Collection(ctx, sourceID)
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}
	segments, err := rag.QueryAll(ctx, collections, vectors[0], retrievalK)
	if err != nil {
		return nil, err
	}

	// Reranking, when the bot asks for it and a backend is wired.
	if bot.UseRerank && s.reranker != nil {
		segments, err = rag.Rerank(ctx, s.reranker, in.question, segments)
		if err != nil {
			return nil, err
		}
	}

	// Packing.
	questionPart := "###question\n" + in.question
	budget := in.maxTokens - s.tokenizer.Count(in.systemContent) - s.tokenizer.Count(questionPart)
	if budget < 0 {
		budget = 0
	}
	contextCandidates := rag.BuildContextCandidates(segments, s.tokenizer.Count)

	var historyCandidates []rag.Candidate
	if len(in.rawHistory) > 2 {
		for _, m := range in.rawHistory[2:] {
			historyCandidates = append(historyCandidates, rag.Candidate{
				Text:   m.Content,
				Tokens: s.tokenizer.Count(m.Content),
			})
		}
	}
	packedContext, packedHistory := rag.Pack(budget, contextCandidates, historyCandidates)

	userMessage := rag.BuildUserMessage(in.question, packedContext)
	submitted := []llm.Message{{Role: llm.RoleSystem, Content: in.systemContent}}
	if in.rawHistory != nil {
		submitted = append(submitted, llm.Message{Role: llm.RoleAssistant, Content: in.welcome})
		// The packer consumed history from the most recent end, so the
		// selection is the chronological tail of the raw log.
		tail := in.rawHistory[len(in.rawHistory)-len(packedHistory):]
		submitted = append(submitted, rawToLLMMessages(tail)...)
	}
	submitted = append(submitted, llm.Message{Role: llm.RoleUser, Content: userMessage})

	// Generating. A response whose visible answer is empty violates the
	// output contract; the turn is resubmitted once with the history
	// truncated to the seeds plus the question.
	var filter *rag.SentinelFilter
	var result *llm.Result
	for attempt := 1; ; attempt++ {
		filter = rag.NewSentinelFilter(func(text string) error {
			return out.WriteText(text)
		})
		result, err = s.llmProvider.ChatStream(ctx, submitted, filter.Write, llm.WithModel(in.model))
		if err != nil {
			return nil, err
		}
		if err := filter.Close(); err != nil {
			return nil, err
		}
		if filter.Answer() != "" {
			break
		}
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("model returned no answer after %d attempts", attempt)
		}
		s.logger.Warn("chat", "model violated the output contract, retrying with truncated history", map[string]interface{}{
			"attempt": attempt,
		})
		truncated := []llm.Message{{Role: llm.RoleSystem, Content: in.systemContent}}
		if in.rawHistory != nil {
			truncated = append(truncated, llm.Message{Role: llm.RoleAssistant, Content: in.welcome})
		}
		submitted = append(truncated, llm.Message{Role: llm.RoleUser, Content: userMessage})
	}

	debugMessages := make([]dto.DebugMessage, len(submitted))
	for i, m := range submitted {
		debugMessages[i] = dto.DebugMessage{Role: m.Role, Content: m.Content}
	}
	return &turnResult{
		userMessage: userMessage,
		response:    result.Content,
		answer:      filter.Answer(),
		summary:     filter.Summary(),
		debug: &dto.CompletionDebug{
			Query:             in.question,
			ExpandedQuery:     expansion.Query,
			RagQuery:          ragQuery,
			RagHistory:        expansion.History,
			SubmittedMessages: debugMessages,
			Response:          result.Content,
			TokensIn:          result.Usage.PromptTokens,
			TokensOut:         result.Usage.CompletionTokens,
		},
	}, nil
}

func rawToLLMMessages(raw []*entity.ChatMessageRaw) []llm.Message {
	messages := make([]llm.Message, len(raw))
	for i, m := range raw {
		messages[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return messages
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
