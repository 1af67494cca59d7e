package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
	"github.com/Dorstol/BitBuddies/internal/infrastructure/repositories"
	"github.com/Dorstol/BitBuddies/internal/interfaces/http/middleware"
	"github.com/Dorstol/BitBuddies/internal/usecases"
	"github.com/Dorstol/BitBuddies/pkg/crypto"
	"github.com/Dorstol/BitBuddies/pkg/jwt"
)

type mailerStub struct {
	verifyTokens []string
	resetTokens  []string
}

func (m *mailerStub) SendVerificationEmail(_, token string) error {
	m.verifyTokens = append(m.verifyTokens, token)
	return nil
}

func (m *mailerStub) SendPasswordResetEmail(_, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

type photoStoreStub struct {
	saved map[string][]byte
}

func (s *photoStoreStub) Save(filename string, content []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[filename] = content
	return "stored-" + filename, nil
}

type handlerEnv struct {
	db             *gorm.DB
	userRepo       *repositories.UserRepository
	teamRepo       *repositories.TeamRepository
	jwtService     *jwt.JWTService
	mailer         *mailerStub
	photos         *photoStoreStub
	accountUsecase *usecases.AccountUsecase
	teamUsecase    *usecases.TeamUsecase
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	for _, q := range []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			hashed_password TEXT NOT NULL,
			position TEXT NOT NULL DEFAULT '',
			contact TEXT NOT NULL DEFAULT '',
			photo TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			is_superuser BOOLEAN NOT NULL DEFAULT 0,
			is_verified BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			project_name TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Initiation',
			owner_id INTEGER NOT NULL,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE UNIQUE INDEX uniq_teams_active_owner ON teams(owner_id) WHERE status <> 'Ready';`,
		`CREATE TABLE users_teams (
			user_id INTEGER NOT NULL,
			team_id INTEGER NOT NULL,
			PRIMARY KEY (user_id, team_id)
		);`,
	} {
		if err := db.Exec(q).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	userRepo := repositories.NewUserRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	uow := repositories.NewUnitOfWork(db)
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour, time.Hour)
	mailer := &mailerStub{}
	photos := &photoStoreStub{}

	return &handlerEnv{
		db:             db,
		userRepo:       userRepo,
		teamRepo:       teamRepo,
		jwtService:     jwtService,
		mailer:         mailer,
		photos:         photos,
		accountUsecase: usecases.NewAccountUsecase(userRepo, teamRepo, jwtService, mailer, photos),
		teamUsecase:    usecases.NewTeamUsecase(teamRepo, uow),
	}
}

func (e *handlerEnv) seedVerifiedUser(t *testing.T, email, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &entities.User{
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		IsVerified:     true,
	}
	if err := e.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// authAs injects an authenticated user the way the bearer middleware
// would.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("unmarshal response: %v body=%s", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &body)
	return body.Code
}
