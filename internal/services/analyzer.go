package services

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arogyalabs/medassist/internal/cache"
	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/prompt"
	"github.com/arogyalabs/medassist/internal/providers/llm"
	"github.com/arogyalabs/medassist/internal/repositories/memory"
	"github.com/arogyalabs/medassist/internal/storage"
	"github.com/arogyalabs/medassist/internal/utils"
)

const analysisCacheTTL = 24 * time.Hour

// AnalyzeResult mirrors SummarizeResult: the analysis text plus the
// separately-reported persistence outcome.
type AnalyzeResult struct {
	Text        string
	RecordSaved bool
	RecordErr   error
}

type ChatResult struct {
	Answer  string
	History []models.ChatMessage
}

// AnalysisService is one image-based workflow (medical report or skin
// condition). Per domain the state machine is
// Empty -> ImageUploaded -> Analyzed -> Chatting; a new upload resets
// to ImageUploaded and discards the prior analysis and history.
type AnalysisService interface {
	UploadImage(ctx context.Context, sessionID string, data []byte, mime string) (*models.Session, error)
	Analyze(ctx context.Context, sessionID, language string) (*AnalyzeResult, error)
	Chat(ctx context.Context, sessionID, question, language string) (*ChatResult, error)
	ClearChat(ctx context.Context, sessionID string) error
}

// domainConfig is the only thing that differs between the two
// workflows: prompts, the persisted report type, and the domain key.
type domainConfig struct {
	domain         models.Domain
	reportType     string
	analysisPrompt func(language string) string
	chatPrompt     func(analysis, question, language string) string
}

var reportConfig = domainConfig{
	domain:         models.DomainReport,
	reportType:     models.ReportTypeReport,
	analysisPrompt: prompt.ReportAnalysis,
	chatPrompt:     prompt.ReportChat,
}

var skinConfig = domainConfig{
	domain:         models.DomainSkin,
	reportType:     models.ReportTypeSkin,
	analysisPrompt: prompt.SkinAnalysis,
	chatPrompt:     prompt.SkinChat,
}

type analyzer struct {
	cfg      domainConfig
	sessions *memory.SessionStore
	llm      llm.Provider
	records  RecordStore
	cache    cache.AnalysisCache // optional
	archive  storage.Uploader    // optional
	log      *logrus.Logger
}

func NewReportService(sessions *memory.SessionStore, provider llm.Provider, records RecordStore, c cache.AnalysisCache, archive storage.Uploader, log *logrus.Logger) AnalysisService {
	return &analyzer{cfg: reportConfig, sessions: sessions, llm: provider, records: records, cache: c, archive: archive, log: log}
}

func NewSkinService(sessions *memory.SessionStore, provider llm.Provider, records RecordStore, c cache.AnalysisCache, archive storage.Uploader, log *logrus.Logger) AnalysisService {
	return &analyzer{cfg: skinConfig, sessions: sessions, llm: provider, records: records, cache: c, archive: archive, log: log}
}

func (a *analyzer) op(name string) string {
	if a.cfg.domain == models.DomainSkin {
		return "SkinService." + name
	}
	return "ReportService." + name
}

// UploadImage replaces the domain's image and resets its analysis and
// history in one atomic step.
func (a *analyzer) UploadImage(ctx context.Context, sessionID string, data []byte, mime string) (*models.Session, error) {
	op := a.op("UploadImage")

	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "image is empty", nil)
	}
	if mime != "image/png" && mime != "image/jpeg" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "image must be PNG or JPEG", nil)
	}

	img := &models.ImageBlob{Data: data, MIME: mime}

	err := a.sessions.Mutate(sessionID, func(sess *models.Session) error {
		d := sess.Domain(a.cfg.domain)
		d.Image = img
		d.Analysis = ""
		d.History = nil
		return nil
	})
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	if a.archive != nil {
		ext := ".png"
		if mime == "image/jpeg" {
			ext = ".jpg"
		}
		objectName := string(a.cfg.domain) + "/" + sess.UserID + "/" + uuid.NewString() + ext
		if _, archiveErr := a.archive.Upload(ctx, objectName, mime, bytes.NewReader(data)); archiveErr != nil {
			// best effort, never fatal
			a.log.WithError(archiveErr).WithField("object", objectName).Warn("image archive failed")
		}
	}

	return sess, nil
}

func (a *analyzer) Analyze(ctx context.Context, sessionID, language string) (*AnalyzeResult, error) {
	op := a.op("Analyze")

	if !prompt.Supported(language) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported language", nil)
	}

	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	d := sess.Domain(a.cfg.domain)
	if d.Image == nil {
		return nil, utils.E(utils.CodeFailedPrecondition, op, "no image uploaded", nil)
	}

	text, cached := a.cachedAnalysis(ctx, language, d.Image)
	if !cached {
		text, err = a.llm.Generate(ctx, a.cfg.analysisPrompt(language), d.Image)
		if err != nil {
			// failure keeps the domain at ImageUploaded
			return nil, utils.E(utils.CodeUnavailable, op, "failed to analyze image", err)
		}
		a.storeCachedAnalysis(ctx, language, d.Image, text)
	}

	if err := a.sessions.Mutate(sessionID, func(sess *models.Session) error {
		sess.Domain(a.cfg.domain).Analysis = text
		return nil
	}); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	res := &AnalyzeResult{Text: text}

	if sess.Name != "" {
		rec := models.AnalysisRecord{
			UserID:     sess.UserID,
			Name:       sess.Name,
			Age:        sess.Age,
			Gender:     sess.Gender,
			ReportType: a.cfg.reportType,
			Analysis:   text,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := a.records.Append(ctx, rec); err != nil {
			a.log.WithError(err).WithField("session_id", sessionID).Warn("failed to persist analysis record")
			res.RecordErr = err
		} else {
			res.RecordSaved = true
		}
	}

	return res, nil
}

// Chat answers a follow-up with stateless replay: the prior analysis
// is embedded in the prompt and the original image re-attached, every
// turn. The user message is appended before the model call and stays
// in history even when the call fails.
func (a *analyzer) Chat(ctx context.Context, sessionID, question, language string) (*ChatResult, error) {
	op := a.op("Chat")

	if question == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question is required", nil)
	}
	if !prompt.Supported(language) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported language", nil)
	}

	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	d := sess.Domain(a.cfg.domain)
	if d.Image == nil || d.Analysis == "" {
		return nil, utils.E(utils.CodeFailedPrecondition, op, "analyze an image before chatting", nil)
	}

	if err := a.appendMessage(sessionID, models.RoleUser, question); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	answer, err := a.llm.Generate(ctx, a.cfg.chatPrompt(d.Analysis, question, language), d.Image)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to answer question", err)
	}

	if err := a.appendMessage(sessionID, models.RoleAssistant, answer); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	updated, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	return &ChatResult{
		Answer:  answer,
		History: updated.Domain(a.cfg.domain).History,
	}, nil
}

func (a *analyzer) ClearChat(ctx context.Context, sessionID string) error {
	op := a.op("ClearChat")

	err := a.sessions.Mutate(sessionID, func(sess *models.Session) error {
		sess.Domain(a.cfg.domain).History = nil
		return nil
	})
	if err != nil {
		return utils.E(utils.CodeNotFound, op, "session not found", err)
	}
	return nil
}

func (a *analyzer) appendMessage(sessionID, role, content string) error {
	return a.sessions.Mutate(sessionID, func(sess *models.Session) error {
		d := sess.Domain(a.cfg.domain)
		d.History = append(d.History, models.ChatMessage{Role: role, Content: content})
		return nil
	})
}

func (a *analyzer) cachedAnalysis(ctx context.Context, language string, img *models.ImageBlob) (string, bool) {
	if a.cache == nil {
		return "", false
	}
	key := cache.Key(string(a.cfg.domain), language, img.Data)
	text, hit, err := a.cache.Get(ctx, key)
	if err != nil {
		a.log.WithError(err).Debug("analysis cache get failed")
		return "", false
	}
	return text, hit
}

func (a *analyzer) storeCachedAnalysis(ctx context.Context, language string, img *models.ImageBlob, text string) {
	if a.cache == nil {
		return
	}
	key := cache.Key(string(a.cfg.domain), language, img.Data)
	if err := a.cache.Set(ctx, key, text, analysisCacheTTL); err != nil {
		a.log.WithError(err).Debug("analysis cache set failed")
	}
}
