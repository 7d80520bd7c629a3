package store

type Storages struct {
	UserRepository    UserRepository
	SessionRepository SessionRepository
}

func NewStorages(db *DB) *Storages {
	return &Storages{
		UserRepository:    NewUserRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}
