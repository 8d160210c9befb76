package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userSelect = `
	SELECT
		u.id, u.name, u.email, u.password_hash, u.role, u.division_id, u.supervisor_id,
		u.is_active, u.bio, u.phone, u.instagram_url, u.linkedin_url, u.github_url,
		u.avatar_path, u.oauth_provider, u.oauth_provider_id, u.created_at, u.updated_at,
		d.name AS division_name,
		s.name AS supervisor_name
	FROM users u
	LEFT JOIN divisions d ON d.id = u.division_id
	LEFT JOIN users s ON s.id = u.supervisor_id
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.DivisionID, &u.SupervisorID,
		&u.IsActive, &u.Bio, &u.Phone, &u.InstagramURL, &u.LinkedinURL, &u.GithubURL,
		&u.AvatarPath, &u.OAuthProvider, &u.OAuthProviderID, &u.CreatedAt, &u.UpdatedAt,
		&u.DivisionName, &u.SupervisorName,
	)
	return u, err
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg interface{}) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, "LOWER(u.email) = LOWER($1)", email)
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			name, email, password_hash, role, division_id, supervisor_id, is_active,
			oauth_provider, oauth_provider_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		newUser.Name,
		strings.ToLower(newUser.Email),
		newUser.PasswordHash,
		newUser.Role,
		newUser.DivisionID,
		newUser.SupervisorID,
		newUser.IsActive,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return user.User{}, user.ErrUserEmailExists
		}
		if database.IsForeignKeyViolation(err) {
			return user.User{}, fmt.Errorf("%w: %v", user.ErrSupervisorNotFound, err)
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update implements user.UserRepository. An empty DivisionID or SupervisorID clears the column.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.DivisionID != nil {
		updates["division_id"] = nullIfEmpty(*req.DivisionID)
	}
	if req.SupervisorID != nil {
		updates["supervisor_id"] = nullIfEmpty(*req.SupervisorID)
	}

	return r.applyUpdates(ctx, q, req.ID, updates)
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	optional := map[string]*string{
		"bio":           req.Bio,
		"phone":         req.Phone,
		"instagram_url": req.InstagramURL,
		"linkedin_url":  req.LinkedinURL,
		"github_url":    req.GithubURL,
	}
	for column, v := range optional {
		if v != nil {
			updates[column] = nullIfEmpty(strings.TrimSpace(*v))
		}
	}

	return r.applyUpdates(ctx, q, id, updates)
}

func (r *userRepositoryImpl) applyUpdates(ctx context.Context, q database.Querier, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1
	for column, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argIdx)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", user.ErrSupervisorNotFound, err)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateAvatar implements user.UserRepository.
func (r *userRepositoryImpl) UpdateAvatar(ctx context.Context, id string, avatarPath string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET avatar_path = $1, updated_at = NOW() WHERE id = $2`, avatarPath, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetActive implements user.UserRepository.
func (r *userRepositoryImpl) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		UPDATE users
		SET oauth_provider = 'google', oauth_provider_id = $1, updated_at = NOW()
		WHERE LOWER(email) = LOWER($2)
		RETURNING id
	`, googleID, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to link google account: %w", err)
	}

	return r.GetByID(ctx, id)
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.DivisionID != nil && *filter.DivisionID != "" {
		baseWhere += fmt.Sprintf(" AND u.division_id = $%d", argIdx)
		args = append(args, *filter.DivisionID)
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND u.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.IsActive != nil {
		baseWhere += fmt.Sprintf(" AND u.is_active = $%d", argIdx)
		args = append(args, *filter.IsActive)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (u.name ILIKE $%d OR u.email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM users u WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderByField := "u.name"
	switch filter.SortBy {
	case "email":
		orderByField = "u.email"
	case "created_at":
		orderByField = "u.created_at"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		userSelect, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	users, err := r.queryUsers(ctx, q, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListWithAvatar implements user.UserRepository.
func (r *userRepositoryImpl) ListWithAvatar(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)
	return r.queryUsers(ctx, q, userSelect+" WHERE u.avatar_path IS NOT NULL AND u.avatar_path <> '' ORDER BY u.created_at")
}

func (r *userRepositoryImpl) queryUsers(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]user.User, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
