package services_test

import (
	"context"
	"testing"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/repositories/memory"
	"github.com/arogyalabs/medassist/internal/services"
	"github.com/arogyalabs/medassist/internal/utils"
)

func TestStartInitializesEmptySession(t *testing.T) {
	store := memory.NewSessionStore()
	svc := services.NewSessionService(store)

	sess, err := svc.Start(context.Background(), "Asha", 32, "Female")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if sess.SessionID == "" || sess.UserID == "" {
		t.Fatal("session and user ids must be generated")
	}
	if sess.Report.State() != models.StateEmpty || sess.Skin.State() != models.StateEmpty {
		t.Fatal("both domains must start empty")
	}
	if len(sess.Report.History) != 0 || len(sess.Skin.History) != 0 {
		t.Fatal("histories must start empty")
	}

	other, err := svc.Start(context.Background(), "Ravi", 40, "Male")
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if other.UserID == sess.UserID || other.SessionID == sess.SessionID {
		t.Fatal("sessions must not share identifiers")
	}
}

func TestStartValidation(t *testing.T) {
	svc := services.NewSessionService(memory.NewSessionStore())
	ctx := context.Background()

	if _, err := svc.Start(ctx, "A", 121, "Male"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("age 121: got %v", err)
	}
	if _, err := svc.Start(ctx, "A", -3, "Male"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("negative age: got %v", err)
	}
	if _, err := svc.Start(ctx, "A", 30, "Unknown"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("bad gender: got %v", err)
	}

	// age defaults when omitted
	sess, err := svc.Start(ctx, "A", 0, "")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if sess.Age != 25 {
		t.Fatalf("default age = %d, want 25", sess.Age)
	}
}

func TestEndRemovesSession(t *testing.T) {
	store := memory.NewSessionStore()
	svc := services.NewSessionService(store)
	ctx := context.Background()

	sess, err := svc.Start(ctx, "", 30, "")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.End(ctx, sess.SessionID); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, err := svc.Get(ctx, sess.SessionID); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("got %v, want NOT_FOUND after End", err)
	}
}
