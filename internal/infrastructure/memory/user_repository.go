package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	a access
}

// Create persiste un usuario. Username es único sin distinguir mayúsculas.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.write(func(st *state) error {
		if findUser(st, u.Username) != nil {
			return domain.ErrDuplicate
		}
		st.users[u.ID] = u.Clone()
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		out = st.users[id].Clone()
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		out = findUser(st, username).Clone()
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		if other := findUser(st, u.Username); other != nil && other.ID != u.ID {
			return domain.ErrDuplicate
		}
		st.users[u.ID] = u.Clone()
		return nil
	})
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.users, id)
		return nil
	})
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.a.read(func(st *state) error {
		out = sortedUsers(st.users)
		return nil
	})
	return out, err
}

func findUser(st *state, username string) *entity.User {
	name := strings.TrimSpace(username)
	for _, u := range st.users {
		if strings.EqualFold(u.Username, name) {
			return u
		}
	}
	return nil
}

func sortedUsers(m map[string]*entity.User) []*entity.User {
	out := make([]*entity.User, 0, len(m))
	for _, u := range m {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}
