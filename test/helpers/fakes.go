package helpers

import (
	"strings"
	"sync"
	"time"

	"sohagstore_backend/internal/models"
	"sohagstore_backend/internal/pagination"
	"sohagstore_backend/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryUserRepository - потокобезопасная in-memory реализация
// repositories.UserRepository для юнит-тестов без Postgres.
// Аргумент db игнорируется.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
	}
}

func (r *MemoryUserRepository) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *MemoryUserRepository) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	updated := *user
	updated.PasswordHash = stored.PasswordHash
	updated.UpdatedAt = time.Now()
	r.users[user.ID] = updated
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ *gorm.DB, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	r.users[userID] = user
	return nil
}

func (r *MemoryUserRepository) SetActive(_ *gorm.DB, userID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Active = active
	user.UpdatedAt = time.Now()
	r.users[userID] = user
	return nil
}

func (r *MemoryUserRepository) Delete(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *MemoryUserRepository) ExistsByEmail(_ *gorm.DB, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) HasAdmin(_ *gorm.DB) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Role == models.UserRoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) FindWithFilter(_ *gorm.DB, filter repositories.UserFilter, opts pagination.Options) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.User
	for _, user := range r.users {
		if !containsFold(user.Name, filter.Name) {
			continue
		}
		if !containsFold(user.Email, filter.Email) {
			continue
		}
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		matched = append(matched, user)
	}

	total := int64(len(matched))

	// Упрощенная пагинация: без сортировки, только нарезка страницы
	opts = opts.Normalize()
	start := (opts.Page - 1) * opts.Limit
	if start >= len(matched) {
		return []models.User{}, total, nil
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// containsFold повторяет семантику ILIKE '%pattern%': пустой паттерн
// пропускает все
func containsFold(value, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

// MemoryPasswordResetRepository - in-memory реализация
// repositories.PasswordResetRepository. Инкремент попыток атомарен
// под мьютексом, как UPDATE ... RETURNING в Postgres.
type MemoryPasswordResetRepository struct {
	mu     sync.Mutex
	resets map[string]models.PasswordReset
}

func NewMemoryPasswordResetRepository() *MemoryPasswordResetRepository {
	return &MemoryPasswordResetRepository{
		resets: make(map[string]models.PasswordReset),
	}
}

func (r *MemoryPasswordResetRepository) Upsert(_ *gorm.DB, reset *models.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.resets {
		if existing.UserID == reset.UserID {
			reset.ID = id
			reset.CreatedAt = existing.CreatedAt
			reset.UpdatedAt = time.Now()
			r.resets[id] = *reset
			return nil
		}
	}
	if reset.ID == "" {
		reset.ID = uuid.NewString()
	}
	reset.CreatedAt = time.Now()
	reset.UpdatedAt = reset.CreatedAt
	r.resets[reset.ID] = *reset
	return nil
}

func (r *MemoryPasswordResetRepository) FindByUserID(_ *gorm.DB, userID string) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reset := range r.resets {
		if reset.UserID == userID {
			res := reset
			return &res, nil
		}
	}
	return nil, repositories.ErrPasswordResetNotFound
}

func (r *MemoryPasswordResetRepository) FindByResetTokenHash(_ *gorm.DB, tokenHash string) (*models.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reset := range r.resets {
		if reset.ResetTokenHash != nil && *reset.ResetTokenHash == tokenHash {
			res := reset
			return &res, nil
		}
	}
	return nil, repositories.ErrPasswordResetNotFound
}

func (r *MemoryPasswordResetRepository) IncrementAttempts(_ *gorm.DB, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset, ok := r.resets[id]
	if !ok {
		return 0, repositories.ErrPasswordResetNotFound
	}
	reset.Attempts++
	reset.UpdatedAt = time.Now()
	r.resets[id] = reset
	return reset.Attempts, nil
}

func (r *MemoryPasswordResetRepository) SetResetToken(_ *gorm.DB, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset, ok := r.resets[id]
	if !ok {
		return repositories.ErrPasswordResetNotFound
	}
	reset.ResetTokenHash = &tokenHash
	reset.ResetTokenExpiresAt = &expiresAt
	reset.UpdatedAt = time.Now()
	r.resets[id] = reset
	return nil
}

func (r *MemoryPasswordResetRepository) DeleteByID(_ *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resets[id]; !ok {
		return repositories.ErrPasswordResetNotFound
	}
	delete(r.resets, id)
	return nil
}

func (r *MemoryPasswordResetRepository) DeleteByUserID(_ *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, reset := range r.resets {
		if reset.UserID == userID {
			delete(r.resets, id)
		}
	}
	return nil
}

// Get возвращает запись напрямую, минуя интерфейс - для ассертов в тестах
func (r *MemoryPasswordResetRepository) Get(id string) (models.PasswordReset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reset, ok := r.resets[id]
	return reset, ok
}

// SentEmail - одно перехваченное письмо
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// RecordingSender записывает отправленные письма вместо доставки
type RecordingSender struct {
	mu   sync.Mutex
	Sent []SentEmail
	// Err, если задан, возвращается из Send (симуляция отказа SMTP)
	Err error
}

func (s *RecordingSender) Send(to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, SentEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

// LastSent возвращает последнее перехваченное письмо
func (s *RecordingSender) LastSent() (SentEmail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 {
		return SentEmail{}, false
	}
	return s.Sent[len(s.Sent)-1], true
}
