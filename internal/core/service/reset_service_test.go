package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
	"github.com/amref/learning-api/internal/infrastructure/security"
)

func TestPasswordReset_RequestThenConfirm(t *testing.T) {
	repo := newStubUserRepo()
	hasher := security.NewBcryptHasher()
	authSvc, codec := newTestAuthService(t, repo, hasher)
	notifier := &recordingNotifier{}
	svc := NewPasswordResetService(repo, hasher, codec, nil, notifier, zerolog.Nop())

	if _, err := authSvc.Register(context.Background(), ports.RegisterInput{Email: "a@x.com", Username: "a", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := svc.RequestReset(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(notifier.notices) != 1 || notifier.notices[0].Token != token || notifier.notices[0].Email != "a@x.com" {
		t.Fatalf("unexpected notices: %+v", notifier.notices)
	}

	user, err := svc.ConfirmReset(context.Background(), token, "newpass")
	if err != nil {
		t.Fatalf("confirm reset: %v", err)
	}
	if hasher.Verify("secret1", user.PasswordHash) || !hasher.Verify("newpass", user.PasswordHash) {
		t.Fatalf("password hash not replaced")
	}

	if _, err := authSvc.Login(context.Background(), "a", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, err := authSvc.Login(context.Background(), "a", "newpass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestPasswordReset_UnknownEmail(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewPasswordResetService(newStubUserRepo(), &plainHasher{}, newTestCodec(t, "secret"), nil, notifier, zerolog.Nop())

	if _, err := svc.RequestReset(context.Background(), "ghost@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(notifier.notices) != 0 {
		t.Fatalf("no notice expected for unknown e-mail")
	}
}

func TestPasswordReset_AccessTokenRejected(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", "a@x.com", "a", "secret1", domain.RoleUser, true)
	codec := newTestCodec(t, "secret")
	svc := NewPasswordResetService(repo, &plainHasher{}, codec, nil, &recordingNotifier{}, zerolog.Nop())

	access, _, _ := codec.IssueAccess("u1", domain.RoleUser, 0)
	if _, err := svc.ConfirmReset(context.Background(), access, "newpass"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}

func TestPasswordReset_VanishedAccount(t *testing.T) {
	codec := newTestCodec(t, "secret")
	svc := NewPasswordResetService(newStubUserRepo(), &plainHasher{}, codec, nil, &recordingNotifier{}, zerolog.Nop())

	token, _ := codec.IssueReset("gone@x.com")
	if _, err := svc.ConfirmReset(context.Background(), token, "newpass"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}

func TestPasswordReset_Throttle(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", "a@x.com", "a", "secret1", domain.RoleUser, true)
	throttle := newMemoryThrottle()
	notifier := &recordingNotifier{}
	svc := NewPasswordResetService(repo, &plainHasher{}, newTestCodec(t, "secret"), throttle, notifier, zerolog.Nop())

	if _, err := svc.RequestReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.RequestReset(context.Background(), "a@x.com"); !errors.Is(err, domain.ErrResetThrottled) {
		t.Fatalf("expected ErrResetThrottled, got %v", err)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("expected a single notice, got %d", len(notifier.notices))
	}
}

func TestPasswordReset_ThrottleFailureFailsOpen(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", "a@x.com", "a", "secret1", domain.RoleUser, true)
	throttle := newMemoryThrottle()
	throttle.err = errors.New("redis down")
	svc := NewPasswordResetService(repo, &plainHasher{}, newTestCodec(t, "secret"), throttle, &recordingNotifier{}, zerolog.Nop())

	if _, err := svc.RequestReset(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("expected request to proceed, got %v", err)
	}
}

func TestPasswordReset_NotifierFailure(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", "a@x.com", "a", "secret1", domain.RoleUser, true)
	throttle := newMemoryThrottle()
	notifier := &recordingNotifier{err: errors.New("queue full")}
	svc := NewPasswordResetService(repo, &plainHasher{}, newTestCodec(t, "secret"), throttle, notifier, zerolog.Nop())

	if _, err := svc.RequestReset(context.Background(), "a@x.com"); err == nil {
		t.Fatalf("expected notifier error")
	}
	if throttle.marked["a@x.com"] {
		t.Fatalf("throttle must not be set when the notice was not sent")
	}
}
