package memory

import (
	"cmp"
	"context"
	"strings"

	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

type UserRepository struct {
	guard
	users map[string]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{guard: newGuard(), users: map[string]models.User{}}
}

func (r *UserRepository) checkUnique(user *models.User) error {
	for _, u := range r.users {
		if u.ID == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return duplicate("email %s", user.Email)
		}
		if strings.EqualFold(u.Username, user.Username) {
			return duplicate("username %s", user.Username)
		}
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.lock()()
	if _, ok := r.users[user.ID]; ok {
		return duplicate("user %s", user.ID)
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	touch(&user.CreatedAt, &user.UpdatedAt)
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.lock()()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	defer r.lock()()
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, &u)
		}
	}
	return users, nil
}

func (r *UserRepository) findFirst(match func(models.User) bool) (*models.User, error) {
	defer r.lock()()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findFirst(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findFirst(func(u models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	defer r.lock()()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	touch(&user.CreatedAt, &user.UpdatedAt)
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, int64, error) {
	defer r.lock()()

	var users []*models.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.Specialization != "" && !containsFold(u.Specialization, filter.Specialization) {
			continue
		}
		if filter.Search != "" &&
			!containsFold(u.FirstName, filter.Search) && !containsFold(u.LastName, filter.Search) &&
			!containsFold(u.Email, filter.Search) && !containsFold(u.Username, filter.Search) {
			continue
		}
		users = append(users, &u)
	}

	sortItems(users, filter.ListOptions, func(a, b *models.User) int {
		switch filter.SortBy {
		case "username":
			return cmp.Compare(a.Username, b.Username)
		case "email":
			return cmp.Compare(a.Email, b.Email)
		case "firstName":
			return cmp.Compare(a.FirstName, b.FirstName)
		case "experienceYears":
			return cmp.Compare(a.ExperienceYears, b.ExperienceYears)
		}
		return compareTime(a.CreatedAt, b.CreatedAt)
	}, func(u *models.User) string { return u.ID })

	users, total := page(users, filter.ListOptions)
	return users, total, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	defer r.lock()()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}
