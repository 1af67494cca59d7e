package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dorstol/BitBuddies/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
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
	);`)
}

func createTeamTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		project_name TEXT NOT NULL,
		description TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Initiation',
		owner_id INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE UNIQUE INDEX uniq_teams_active_owner ON teams(owner_id) WHERE status <> 'Ready';`)
	mustExec(t, db, `CREATE TABLE users_teams (
		user_id INTEGER NOT NULL,
		team_id INTEGER NOT NULL,
		PRIMARY KEY (user_id, team_id)
	);`)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *entities.User {
	t.Helper()
	repo := NewUserRepository(db)
	user := &entities.User{
		Email:          email,
		FirstName:      "Test",
		LastName:       "User",
		HashedPassword: "hash",
		IsActive:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func seedTeam(t *testing.T, db *gorm.DB, title string, ownerID uint) *entities.Team {
	t.Helper()
	repo := NewTeamRepository(db)
	team := &entities.Team{
		Title:       title,
		ProjectName: title + " project",
		Description: "a team",
		Status:      entities.StatusInitiation,
		OwnerID:     ownerID,
	}
	require.NoError(t, repo.Create(context.Background(), team))
	require.NoError(t, repo.AddMember(context.Background(), team.ID, ownerID))
	return team
}
