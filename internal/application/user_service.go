package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management/internal/domain/entity"
	repo "github.com/oksasatya/user-management/internal/domain/repository"
	"github.com/oksasatya/user-management/pkg/mailer"
)

var ErrExportNotConfigured = errors.New("object storage not configured")

// Service implements the account operations: CRUD over users plus password
// change. It holds no per-request state; everything goes through Repo.
type Service struct {
	Repo    repo.UserRepository
	Roles   repo.RoleRepository
	Encoder PasswordEncoder
	Logger  *logrus.Logger

	// Optional side channels. Failures are logged, never returned.
	Events EventPublisher
	Index  UserIndex

	Exporter       ObjectUploader
	AdminAuthority string
}

// UserDocument is the searchable projection of a user. It never carries the
// password hash.
type UserDocument struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}

func NewService(users repo.UserRepository, roles repo.RoleRepository, encoder PasswordEncoder, logger *logrus.Logger) *Service {
	return &Service{
		Repo:           users,
		Roles:          roles,
		Encoder:        encoder,
		Logger:         logger,
		AdminAuthority: entity.AuthorityAdmin,
	}
}

func ToDocument(u *entity.User) UserDocument {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return UserDocument{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roles,
	}
}

// ListAll returns every stored user in repository order.
func (s *Service) ListAll(ctx context.Context) ([]entity.User, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

// Create validates the candidate and persists it with an encoded password.
// Checks run in a fixed order: username availability, confirm password
// presence, then password equality.
func (s *Service) Create(ctx context.Context, candidate *entity.User) (*entity.User, error) {
	if err := s.checkCandidate(ctx, candidate); err != nil {
		return nil, err
	}
	return s.insert(ctx, candidate, candidate.Roles)
}

// CreateWithRoleIDs is Create for transport payloads that reference roles by
// id. The ids are resolved only after the candidate checks pass.
func (s *Service) CreateWithRoleIDs(ctx context.Context, candidate *entity.User, roleIDs []int64) (*entity.User, error) {
	if err := s.checkCandidate(ctx, candidate); err != nil {
		return nil, err
	}
	roles, err := s.ResolveRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	return s.insert(ctx, candidate, roles)
}

func (s *Service) checkCandidate(ctx context.Context, candidate *entity.User) error {
	_, err := s.Repo.FindByUsername(ctx, candidate.Username)
	switch {
	case err == nil:
		return FieldValidation("username", MsgUsernameNotAvailable)
	case !errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("lookup username: %w", err)
	}
	if candidate.ConfirmPassword == "" {
		return FieldValidation("confirmPassword", MsgConfirmPasswordNeeded)
	}
	if candidate.Password != candidate.ConfirmPassword {
		return FieldValidation("password", MsgPasswordsNotSame)
	}
	return nil
}

func (s *Service) insert(ctx context.Context, candidate *entity.User, roles []entity.Role) (*entity.User, error) {
	hash, err := s.Encoder.Encode(candidate.Password)
	if err != nil {
		return nil, fmt.Errorf("encode password: %w", err)
	}
	u := *candidate
	u.Password = hash
	u.ConfirmPassword = ""
	u.Roles = roles

	saved, err := s.Repo.Save(ctx, &u)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.indexUser(ctx, saved)
	s.publish(ctx, saved, mailer.UserCreated)
	return saved, nil
}

// GetByID loads a user or fails with NotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound(MsgUserIDNotFound)
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

// Update overwrites username, names, email and roles of the stored record
// with the incoming values, empty ones included. The password is untouched.
func (s *Service) Update(ctx context.Context, incoming *entity.User) (*entity.User, error) {
	existing, err := s.GetByID(ctx, incoming.ID)
	if err != nil {
		return nil, err
	}
	return s.overwrite(ctx, existing, incoming, incoming.Roles)
}

// UpdateWithRoleIDs is Update with roles referenced by id. A missing user is
// reported before any unknown role id.
func (s *Service) UpdateWithRoleIDs(ctx context.Context, incoming *entity.User, roleIDs []int64) (*entity.User, error) {
	existing, err := s.GetByID(ctx, incoming.ID)
	if err != nil {
		return nil, err
	}
	roles, err := s.ResolveRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	return s.overwrite(ctx, existing, incoming, roles)
}

func (s *Service) overwrite(ctx context.Context, existing, incoming *entity.User, roles []entity.Role) (*entity.User, error) {
	existing.Username = incoming.Username
	existing.FirstName = incoming.FirstName
	existing.LastName = incoming.LastName
	existing.Email = incoming.Email
	existing.Roles = roles

	saved, err := s.Repo.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.indexUser(ctx, saved)
	return saved, nil
}

// Delete removes the user with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, u); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if s.Index != nil {
		if iErr := s.Index.Remove(ctx, u.ID); iErr != nil {
			s.warn(iErr, "search index remove failed", logrus.Fields{"user_id": u.ID})
		}
	}
	s.publish(ctx, u, mailer.UserDeleted)
	return nil
}

// ChangePassword runs the password change checks in order: existence,
// current password (skipped for admin callers), reuse, confirmation.
func (s *Service) ChangePassword(ctx context.Context, caller *entity.Principal, form entity.ChangePasswordForm) (*entity.User, error) {
	u, err := s.GetByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	if !caller.HasAuthority(s.adminAuthority()) && !s.samePassword(u.Password, form.CurrentPassword) {
		return nil, InvalidCredential(MsgCurrentPasswordBad)
	}
	if s.samePassword(u.Password, form.NewPassword) {
		return nil, PolicyViolation(MsgNewPasswordReused)
	}
	if form.NewPassword != form.ConfirmPassword {
		return nil, Mismatch(MsgNewPasswordMismatch)
	}

	hash, err := s.Encoder.Encode(form.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("encode password: %w", err)
	}
	u.Password = hash
	saved, err := s.Repo.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.publish(ctx, saved, mailer.PasswordChanged)
	return saved, nil
}

// ResolveRoles maps role ids from a request payload to stored roles. Unknown
// ids are reported as a field validation failure on "roles".
func (s *Service) ResolveRoles(ctx context.Context, ids []int64) ([]entity.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	roles, err := s.Roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	known := make(map[int64]struct{}, len(roles))
	for _, r := range roles {
		known[r.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return nil, FieldValidation("roles", fmt.Sprintf("Role id %d does not exist.", id))
		}
	}
	return roles, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]entity.Role, error) {
	roles, err := s.Roles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// SearchUsers queries the search index by username, email and names.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]UserDocument, error) {
	if s.Index == nil {
		return []UserDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Search(ctx, q, size)
}

// ExportUsers writes a JSON snapshot of the user directory to object storage
// and returns its URL.
func (s *Service) ExportUsers(ctx context.Context) (string, error) {
	if s.Exporter == nil {
		return "", ErrExportNotConfigured
	}
	users, err := s.ListAll(ctx)
	if err != nil {
		return "", err
	}
	docs := make([]UserDocument, 0, len(users))
	for i := range users {
		docs = append(docs, ToDocument(&users[i]))
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}
	objectPath := fmt.Sprintf("exports/users-%s.json", time.Now().UTC().Format("20060102T150405Z"))
	return s.Exporter.Upload(ctx, objectPath, "application/json", bytes.NewReader(b))
}

// samePassword reports whether plain is the stored password. Literal
// equality with the stored value is the base rule. Since stored values are
// bcrypt hashes, a plaintext that verifies against the hash also counts: the
// real current password passes the current-password check and is rejected as
// a new password.
func (s *Service) samePassword(stored, plain string) bool {
	return plain == stored || s.Encoder.Matches(stored, plain)
}

func (s *Service) adminAuthority() string {
	if s.AdminAuthority == "" {
		return entity.AuthorityAdmin
	}
	return s.AdminAuthority
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Index.Index(c, ToDocument(u)); err != nil {
		s.warn(err, "search index failed", logrus.Fields{"user_id": u.ID})
	}
}

func (s *Service) publish(ctx context.Context, u *entity.User, template string) {
	if s.Events == nil || u.Email == "" {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"Username":  u.Username,
			"FirstName": u.FirstName,
			"TimeAt":    time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := s.Events.PublishJSON(ctx, job); err != nil {
		s.warn(err, "publish account event failed", logrus.Fields{"user_id": u.ID, "template": template})
	}
}

func (s *Service) warn(err error, msg string, fields logrus.Fields) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(fields).Warn(msg)
}
