package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/okarpovs/doclib/internal/common"
)

func TestIssue_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{}
	s := NewResetService(db, &fakeRepoManager{u: repo})

	token, err := s.Issue(context.Background(), " Alice@Example.COM ")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{32}$`).MatchString(token) {
		t.Fatalf("token is not 32 hex chars: %q", token)
	}
	if len(repo.setTokens) != 1 || repo.setTokens[0] != token {
		t.Fatalf("stored tokens = %v, want [%q]", repo.setTokens, token)
	}
}

func TestIssue_UniqueEachTime(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{}
	s := NewResetService(db, &fakeRepoManager{u: repo})

	t1, err := s.Issue(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("first Issue: %v", err)
	}
	t2, err := s.Issue(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("two issues produced the same token %q", t1)
	}
}

func TestIssue_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{setTokErr: common.ErrNotFound}})

	if _, err := s.Issue(context.Background(), "ghost@x.y"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestIssue_StoreErr(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{setTokErr: errBoom{}}})

	_, err := s.Issue(context.Background(), "a@b.c")
	if err == nil || !regexp.MustCompile(`error storing reset token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestRedeem_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{}})

	if err := s.Redeem(context.Background(), "a@b.c", "tok", "newpass"); err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRedeem_EmptyToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{}})

	if err := s.Redeem(context.Background(), "a@b.c", "", "newpass"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestRedeem_EmptyPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{}})

	if err := s.Redeem(context.Background(), "a@b.c", "tok", ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestRedeem_WrongToken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{clearTokErr: common.ErrInvalidToken}})

	if err := s.Redeem(context.Background(), "a@b.c", "stale", "newpass"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRedeem_UpdateErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := NewResetService(db, &fakeRepoManager{u: &fakeUsersRepo{updatePwErr: errBoom{}}})

	err := s.Redeem(context.Background(), "a@b.c", "tok", "newpass")
	if err == nil || !regexp.MustCompile(`error redeeming reset token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped redeem error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
