package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	repo := &userRepository{
		db: &DB{DB: db, errorClassificator: NewPostgresErrorClassifier(), logger: logger.Nop()},
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func userRows(userID int64, email, name, hash string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.
		NewRows([]string{"user_id", "email", "name", "password_hash", "profile_image", "role", "status", "failed_logins", "lock_until", "last_login", "last_activity", "created_at"}).
		AddRow(userID, email, name, hash, "", "user", "active", 0, nil, nil, now, now)
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "john@example.com", Name: "John"}

	storedHash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	rows := userRows(1, user.Email, user.Name, string(storedHash))

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.Name, sqlmock.AnyArg()).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user, "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", created.UserID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
	if created.Role != models.RoleUser || created.Status != models.StatusActive {
		t.Errorf("expected default role/status, got %s/%s", created.Role, created.Status)
	}
}

// The stored email must match the case-insensitive unique index, so the
// insert lowercases whatever casing the caller supplied.
func TestCreateUser_LowercasesEmail(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{Email: "John@Example.COM", Name: "John"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("john@example.com", "John", sqlmock.AnyArg()).
		WillReturnRows(userRows(1, "john@example.com", "John", "hash"))

	created, err := repo.CreateUser(ctx, user, "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Email != "john@example.com" {
		t.Errorf("expected lowercased email, got %s", created.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUser_HashesPasswordBeforeWrite(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	const rawPassword = "s3cret-password"

	var writtenHash string
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("john@example.com", "John", passwordHashCaptor{dest: &writtenHash}).
		WillReturnRows(userRows(1, "john@example.com", "John", "hash"))

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com", Name: "John"}, rawPassword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if writtenHash == rawPassword {
		t.Fatal("raw password reached the database")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(writtenHash), []byte(rawPassword)); err != nil {
		t.Fatalf("written value is not a bcrypt hash of the password: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(writtenHash)); cost != bcryptCost {
		t.Errorf("expected bcrypt cost %d, got %d", bcryptCost, cost)
	}
}

// passwordHashCaptor is a sqlmock argument matcher that captures the value
// written to the password_hash column so the test can inspect it.
type passwordHashCaptor struct {
	dest *string
}

func (c passwordHashCaptor) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	*c.dest = s
	return true
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com"}, "s3cret")
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestCreateUser_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com"}, "s3cret")
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestCreateUser_ScanError(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	rows := sqlmock.
		NewRows([]string{"user_id"}). // intentionally wrong shape → scan error
		AddRow(1)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(rows)

	_, err := repo.CreateUser(ctx, models.User{Email: "john@example.com"}, "s3cret")
	if err == nil {
		t.Fatal("expected scan error, got nil")
	}
}

func TestFindUserByEmail_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnRows(userRows(1, "john@example.com", "John", "hash"))

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "john@example.com" {
		t.Errorf("expected email john@example.com, got %s", found.Email)
	}
}

// A transient driver failure on the lookup is retried and the second
// attempt's rows are returned to the caller.
func TestFindUserByEmail_RetriesTransientFailure(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnRows(userRows(1, "john@example.com", "John", "hash"))

	found, err := repo.FindUserByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", found.UserID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs("john@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByEmail(ctx, "john@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindUserByID(ctx, 7)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecordFailedLogin_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordFailedLogin(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordFailedLogin_UserMissing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RecordFailedLogin(ctx, 404)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRecordLogin_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordLogin(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	newName := "Johnny"

	mock.ExpectQuery("UPDATE users SET name").
		WithArgs(newName, int64(1)).
		WillReturnRows(userRows(1, "john@example.com", newName, "hash"))

	updated, err := repo.UpdateProfile(ctx, 1, &newName, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("expected name %s, got %s", newName, updated.Name)
	}
}

func TestUpdateProfile_NoFieldsFallsBackToRead(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id").
		WithArgs(int64(1)).
		WillReturnRows(userRows(1, "john@example.com", "John", "hash"))

	updated, err := repo.UpdateProfile(ctx, 1, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.UserID != 1 {
		t.Errorf("expected UserID=1, got %d", updated.UserID)
	}
}

func TestUpdatePassword_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(ctx, 1, "new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdatePassword_UserMissing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("UPDATE users").
		WithArgs(int64(404), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(ctx, 404, "new-password")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteUser(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteUser_Missing(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteUser(ctx, 404)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
