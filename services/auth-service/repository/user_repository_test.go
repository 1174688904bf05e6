package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(s.T(), err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	s.mock = mock
	s.repo = NewUserRepository(db)
}

func (s *UserRepositoryTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *UserRepositoryTestSuite) TestFindByEmail_Found() {
	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "email", "password", "name", "role"}).
		AddRow(id.String(), "buyer@example.com", "$2a$10$hash", "Buyer", "user")
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(email) = $1`)).
		WillReturnRows(rows)

	user, err := s.repo.FindByEmail(context.Background(), "  Buyer@Example.com ")
	s.Require().NoError(err)
	s.Equal(id, user.ID)
	s.Equal("buyer@example.com", user.Email)
	s.Nil(user.ResetPasswordToken)
}

func (s *UserRepositoryTestSuite) TestFindByEmail_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.repo.FindByEmail(context.Background(), "ghost@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositoryTestSuite) TestFindByEmail_DatabaseError() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnError(errors.New("connection reset"))

	_, err := s.repo.FindByEmail(context.Background(), "buyer@example.com")
	s.Error(err)
	s.NotErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositoryTestSuite) TestSaveResetToken_WritesOnlyResetColumns() {
	id := uuid.New()
	digest := "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "users" SET "reset_password_expires"=$1,"reset_password_token"=$2,"updated_at"=$3 WHERE id = $4`)).
		WithArgs(now.Add(time.Hour), digest, now, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.SaveResetToken(context.Background(), id, digest, now.Add(time.Hour), now))
}

func (s *UserRepositoryTestSuite) TestSaveResetToken_UserGone() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.SaveResetToken(context.Background(), uuid.New(), "digest", time.Now(), time.Now())
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositoryTestSuite) TestRedeemResetToken_ConditionalOnLiveToken() {
	id := uuid.New()
	now := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "users" SET "password"=$1,"reset_password_expires"=$2,"reset_password_token"=$3,"updated_at"=$4 `+
			`WHERE id = $5 AND reset_password_token = $6 AND reset_password_expires > $7`)).
		WithArgs("$2a$10$new", nil, nil, now, id.String(), "digest", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.RedeemResetToken(context.Background(), id, "digest", "$2a$10$new", now))
}

func (s *UserRepositoryTestSuite) TestRedeemResetToken_AlreadyUsed() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "password"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.RedeemResetToken(context.Background(), uuid.New(), "digest", "$2a$10$new", time.Now())
	s.ErrorIs(err, ErrResetTokenInvalid)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepositoryTestSuite))
}
