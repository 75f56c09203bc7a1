package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/repositories/memory"
	"github.com/arogyalabs/medassist/internal/services"
	"github.com/arogyalabs/medassist/internal/utils"
)

// tiny but valid-enough PNG header so content sniffing in handlers
// stays out of service tests; services only check the declared MIME.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newReportService(store *memory.SessionStore, provider *stubLLM, records *stubRecords) services.AnalysisService {
	return services.NewReportService(store, provider, records, nil, nil, testLogger())
}

func TestChatBeforeAnalyzeIsPreconditionFailure(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	records := &stubRecords{}
	svc := newReportService(store, &stubLLM{reply: "x"}, records)
	ctx := context.Background()

	_, err := svc.Chat(ctx, sess.SessionID, "What does X mean?", "English")
	if !utils.IsCode(err, utils.CodeFailedPrecondition) {
		t.Fatalf("got %v, want FAILED_PRECONDITION", err)
	}

	got, _ := store.Get(sess.SessionID)
	if len(got.Report.History) != 0 {
		t.Fatal("precondition failure must not mutate history")
	}
	if len(records.recs) != 0 {
		t.Fatal("precondition failure must not persist anything")
	}

	// image alone is not enough either
	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if _, err := svc.Chat(ctx, sess.SessionID, "q", "English"); !utils.IsCode(err, utils.CodeFailedPrecondition) {
		t.Fatalf("got %v, want FAILED_PRECONDITION", err)
	}
}

func TestAnalyzeRequiresImage(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	svc := newReportService(store, &stubLLM{reply: "x"}, &stubRecords{})

	_, err := svc.Analyze(context.Background(), sess.SessionID, "English")
	if !utils.IsCode(err, utils.CodeFailedPrecondition) {
		t.Fatalf("got %v, want FAILED_PRECONDITION", err)
	}
}

func TestAnalyzeThenChatThenClear(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	provider := &stubLLM{reply: "detailed findings"}
	records := &stubRecords{}
	svc := newReportService(store, provider, records)
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}

	res, err := svc.Analyze(ctx, sess.SessionID, "Hindi")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Text != "detailed findings" || !res.RecordSaved {
		t.Fatalf("unexpected analyze result: %+v", res)
	}
	if len(records.recs) != 1 || records.recs[0].ReportType != models.ReportTypeReport {
		t.Fatalf("unexpected records: %+v", records.recs)
	}
	// image travels with the analysis prompt
	if provider.images[0] == nil {
		t.Fatal("analyze must attach the image")
	}

	got, _ := store.Get(sess.SessionID)
	if got.Report.State() != models.StateAnalyzed {
		t.Fatalf("state = %q, want analyzed", got.Report.State())
	}

	provider.reply = "it means your value is normal"
	chat, err := svc.Chat(ctx, sess.SessionID, "What does X mean?", "Hindi")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if chat.Answer != "it means your value is normal" {
		t.Fatalf("unexpected answer %q", chat.Answer)
	}
	if len(chat.History) != 2 ||
		chat.History[0].Role != models.RoleUser ||
		chat.History[1].Role != models.RoleAssistant {
		t.Fatalf("history must be [user, assistant], got %+v", chat.History)
	}

	// stateless replay: the chat prompt embeds the analysis and the
	// question, and the original image is re-attached
	chatPrompt := provider.prompts[1]
	if !strings.Contains(chatPrompt, "detailed findings") || !strings.Contains(chatPrompt, "What does X mean?") {
		t.Fatalf("chat prompt must replay the analysis: %q", chatPrompt)
	}
	if provider.images[1] == nil {
		t.Fatal("chat must re-attach the original image")
	}

	if err := svc.ClearChat(ctx, sess.SessionID); err != nil {
		t.Fatalf("ClearChat failed: %v", err)
	}
	got, _ = store.Get(sess.SessionID)
	if len(got.Report.History) != 0 {
		t.Fatal("history not cleared")
	}
	if got.Report.Analysis != "detailed findings" {
		t.Fatal("clearing chat must retain the analysis")
	}
}

func TestChatFailureKeepsUserMessage(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	provider := &stubLLM{reply: "analysis text"}
	svc := newReportService(store, provider, &stubRecords{})
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if _, err := svc.Analyze(ctx, sess.SessionID, "English"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	provider.err = errors.New("transport failure")
	_, err := svc.Chat(ctx, sess.SessionID, "my question", "English")
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("got %v, want UNAVAILABLE", err)
	}

	got, _ := store.Get(sess.SessionID)
	if len(got.Report.History) != 1 || got.Report.History[0].Role != models.RoleUser {
		t.Fatalf("user message must remain after failure, got %+v", got.Report.History)
	}
}

func TestAnalyzeFailureKeepsImageUploadedState(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	records := &stubRecords{}
	svc := newReportService(store, &stubLLM{err: errors.New("auth failure")}, records)
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if _, err := svc.Analyze(ctx, sess.SessionID, "English"); !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatal("expected UNAVAILABLE")
	}

	got, _ := store.Get(sess.SessionID)
	if got.Report.State() != models.StateImageUploaded {
		t.Fatalf("state = %q, want image_uploaded", got.Report.State())
	}
	if len(records.recs) != 0 {
		t.Fatal("no record on failed analyze")
	}
}

func TestNewUploadResetsDomain(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	provider := &stubLLM{reply: "skin assessment"}
	svc := services.NewSkinService(store, provider, &stubRecords{}, nil, nil, testLogger())
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if _, err := svc.Analyze(ctx, sess.SessionID, "Tamil"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, err := svc.Chat(ctx, sess.SessionID, "how long to heal?", "Tamil"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	// second upload discards the prior analysis and history
	if _, err := svc.UploadImage(ctx, sess.SessionID, append(pngBytes, 0xFF), "image/jpeg"); err != nil {
		t.Fatalf("second UploadImage failed: %v", err)
	}

	got, _ := store.Get(sess.SessionID)
	if got.Skin.State() != models.StateImageUploaded {
		t.Fatalf("state = %q, want image_uploaded", got.Skin.State())
	}
	if got.Skin.Analysis != "" {
		t.Fatal("analysis must be discarded on new upload")
	}
	if len(got.Skin.History) != 0 {
		t.Fatal("history must be discarded on new upload")
	}
	// report domain untouched
	if got.Report.State() != models.StateEmpty {
		t.Fatal("other domain must not be affected")
	}
}

func TestSkinAnalyzePersistsSkinConditionRecord(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	records := &stubRecords{}
	svc := services.NewSkinService(store, &stubLLM{reply: "assessment"}, records, nil, nil, testLogger())
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if _, err := svc.Analyze(ctx, sess.SessionID, "English"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(records.recs) != 1 || records.recs[0].ReportType != models.ReportTypeSkin {
		t.Fatalf("unexpected records: %+v", records.recs)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	svc := newReportService(store, &stubLLM{reply: "x"}, &stubRecords{})
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, nil, "image/png"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("empty image: got %v", err)
	}
	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/gif"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("bad mime: got %v", err)
	}
	if _, err := svc.UploadImage(ctx, "missing", pngBytes, "image/png"); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("unknown session: got %v", err)
	}
}

// fakeCache is a map-backed AnalysisCache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, analysis string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = analysis
	return nil
}

func TestAnalyzeUsesCacheOnRepeat(t *testing.T) {
	store := memory.NewSessionStore()
	sess := startSession(t, store, "Asha")
	provider := &stubLLM{reply: "cached findings"}
	records := &stubRecords{}
	c := &fakeCache{data: map[string]string{}}
	svc := services.NewReportService(store, provider, records, c, nil, testLogger())
	ctx := context.Background()

	if _, err := svc.UploadImage(ctx, sess.SessionID, pngBytes, "image/png"); err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if _, err := svc.Analyze(ctx, sess.SessionID, "English"); err != nil {
		t.Fatalf("first Analyze failed: %v", err)
	}
	res, err := svc.Analyze(ctx, sess.SessionID, "English")
	if err != nil {
		t.Fatalf("second Analyze failed: %v", err)
	}
	if res.Text != "cached findings" {
		t.Fatalf("unexpected cached result %q", res.Text)
	}
	if len(provider.prompts) != 1 {
		t.Fatalf("model called %d times, want 1 (second hit should come from cache)", len(provider.prompts))
	}
	// a cache hit still writes the record
	if len(records.recs) != 2 {
		t.Fatalf("got %d records, want 2", len(records.recs))
	}
}
