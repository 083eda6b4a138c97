package postgres

import (
	"database/sql"

	"mewayz-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.WorkspaceRepository
	repository.InvitationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		WorkspaceRepository:    NewWorkspaceRepository(db),
		InvitationRepository:   NewInvitationRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
